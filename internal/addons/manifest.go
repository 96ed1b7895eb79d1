package addons

import (
	"context"
	"fmt"
	"time"

	"github.com/imamik/blueprints/pkg/blueprint"
)

// ManifestAddOn applies plain YAML manifests.
type ManifestAddOn struct {
	AddOnName string
	Namespace string

	// Paths are manifest files or directories.
	Paths []string

	// Wait makes the add-on complete only once its workloads are ready.
	Wait         bool
	PollInterval time.Duration
}

var _ blueprint.AddOn = (*ManifestAddOn)(nil)

// Name implements blueprint.AddOn.
func (a *ManifestAddOn) Name() string {
	return a.AddOnName
}

// Deploy implements blueprint.AddOn.
func (a *ManifestAddOn) Deploy(ctx context.Context, info *blueprint.ClusterInfo) (blueprint.Pending, error) {
	manifests, err := readManifests(a.Paths)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.AddOnName, err)
	}
	return apply(ctx, info, a.AddOnName, a.Namespace, manifests, a.Wait, a.PollInterval)
}
