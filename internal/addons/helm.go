package addons

import (
	"context"
	"fmt"
	"time"

	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	"github.com/imamik/blueprints/internal/addons/helm"
	"github.com/imamik/blueprints/internal/util/naming"
	"github.com/imamik/blueprints/pkg/blueprint"
)

// HelmAddOn renders a local chart and applies the result.
//
// With TeamAccess set the add-on also has a post-deploy step: once every
// add-on has completed, each team is granted the view role in the add-on
// namespace.
type HelmAddOn struct {
	AddOnName string
	Namespace string
	Chart     string

	// ValuesFiles are merged in order, then Values on top.
	ValuesFiles []string
	Values      helm.Values

	Wait         bool
	PollInterval time.Duration
	TeamAccess   bool
}

var (
	_ blueprint.AddOn        = (*HelmAddOn)(nil)
	_ blueprint.PostDeployer = (*HelmAddOn)(nil)
)

// Name implements blueprint.AddOn.
func (a *HelmAddOn) Name() string {
	return a.AddOnName
}

// Deploy implements blueprint.AddOn.
func (a *HelmAddOn) Deploy(ctx context.Context, info *blueprint.ClusterInfo) (blueprint.Pending, error) {
	fileValues, err := helm.LoadValuesFiles(a.ValuesFiles...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.AddOnName, err)
	}

	renderer := helm.NewRenderer(a.AddOnName, a.Namespace, info.Cluster().Version.String())
	manifests, err := renderer.RenderFromPath(a.Chart, helm.Merge(fileValues, a.Values))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.AddOnName, err)
	}

	return apply(ctx, info, a.AddOnName, a.Namespace, manifests, a.Wait, a.PollInterval)
}

// PostDeploy implements blueprint.PostDeployer.
func (a *HelmAddOn) PostDeploy(ctx context.Context, info *blueprint.ClusterInfo, teams []blueprint.Team) error {
	if !a.TeamAccess {
		return nil
	}
	if info.Client == nil {
		return fmt.Errorf("%s: cluster info has no client", a.AddOnName)
	}

	for _, team := range teams {
		binding := &rbacv1.RoleBinding{
			ObjectMeta: metav1.ObjectMeta{
				Name:      naming.AddOnAccessBinding(a.AddOnName, team.Name()),
				Namespace: a.Namespace,
			},
		}
		_, err := controllerutil.CreateOrUpdate(ctx, info.Client, binding, func() error {
			binding.Labels = labelsFor(info, a.AddOnName).WithTeam(team.Name()).Build()
			binding.RoleRef = rbacv1.RoleRef{
				APIGroup: rbacv1.GroupName,
				Kind:     "ClusterRole",
				Name:     "view",
			}
			binding.Subjects = []rbacv1.Subject{{
				APIGroup: rbacv1.GroupName,
				Kind:     rbacv1.GroupKind,
				Name:     naming.TeamGroup(team.Name()),
			}}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to grant team %s access to %s: %w", team.Name(), a.AddOnName, err)
		}
	}
	return nil
}
