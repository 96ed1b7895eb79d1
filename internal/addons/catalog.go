package addons

import (
	"fmt"
	"time"

	"github.com/imamik/blueprints/internal/addons/helm"
	"github.com/imamik/blueprints/internal/config"
	"github.com/imamik/blueprints/pkg/blueprint"
)

// Entry describes an add-on type a blueprint file can use.
type Entry struct {
	Type        string
	Description string
	Async       bool
	PostDeploy  bool
}

// Catalog lists the add-on types in the order they are documented.
func Catalog() []Entry {
	return []Entry{
		{
			Type:        config.AddOnManifest,
			Description: "Apply YAML manifests from files or directories",
			Async:       true,
		},
		{
			Type:        config.AddOnHelm,
			Description: "Render a local Helm chart and apply it; optionally grant teams view access",
			Async:       true,
			PostDeploy:  true,
		},
		{
			Type:        config.AddOnSecret,
			Description: "Create a credential secret with a generated or shared password",
		},
	}
}

// FromSpec builds the add-on declared by spec. poll is the readiness poll
// interval of add-ons that wait for their workloads.
func FromSpec(spec config.AddOnSpec, poll time.Duration) (blueprint.AddOn, error) {
	switch spec.Type {
	case config.AddOnManifest:
		return &ManifestAddOn{
			AddOnName:    spec.Name,
			Namespace:    spec.Namespace,
			Paths:        spec.Manifests,
			Wait:         spec.Wait,
			PollInterval: poll,
		}, nil
	case config.AddOnHelm:
		return &HelmAddOn{
			AddOnName:    spec.Name,
			Namespace:    spec.Namespace,
			Chart:        spec.Chart,
			ValuesFiles:  spec.ValuesFiles,
			Values:       helm.Values(spec.Values),
			Wait:         spec.Wait,
			PollInterval: poll,
			TeamAccess:   spec.TeamAccess,
		}, nil
	case config.AddOnSecret:
		return &SecretAddOn{
			AddOnName:        spec.Name,
			Namespace:        spec.Namespace,
			SecretName:       spec.SecretName,
			PasswordResource: spec.PasswordResource,
		}, nil
	}
	return nil, fmt.Errorf("unknown add-on type %q", spec.Type)
}
