package labels

import "maps"

// Standard label keys.
const (
	// KeyBlueprint identifies which blueprint a resource belongs to
	KeyBlueprint = "blueprints.io/blueprint"

	// KeyTeam identifies the team a namespace or binding belongs to
	KeyTeam = "blueprints.io/team"

	// KeyAddOn identifies the add-on that created an object
	KeyAddOn = "blueprints.io/addon"

	// KeyDefault marks the network selected by the "default" network context
	KeyDefault = "blueprints.io/default"

	// KeyPublicSubnets records how many leading subnets of a network are public
	KeyPublicSubnets = "blueprints.io/public-subnets"

	// KeyManagedBy identifies the management system
	KeyManagedBy = "app.kubernetes.io/managed-by"
)

// ManagedBy value set on every resource.
const ManagedByBlueprints = "blueprints"

// LabelBuilder provides a fluent interface for building resource labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a new label builder with the blueprint ID pre-set.
func NewLabelBuilder(blueprint string) *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyBlueprint: blueprint,
			KeyManagedBy: ManagedByBlueprints,
		},
	}
}

// WithTeam adds a team label.
func (lb *LabelBuilder) WithTeam(team string) *LabelBuilder {
	lb.labels[KeyTeam] = team
	return lb
}

// WithAddOn adds an add-on label.
func (lb *LabelBuilder) WithAddOn(addOn string) *LabelBuilder {
	lb.labels[KeyAddOn] = addOn
	return lb
}

// Merge adds all labels from the provided map. Existing keys are
// overwritten.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	maps.Copy(lb.labels, extra)
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	return maps.Clone(lb.labels)
}

// SelectorDefault selects the network used for the "default" network context.
func SelectorDefault() string {
	return KeyDefault + "=true"
}
