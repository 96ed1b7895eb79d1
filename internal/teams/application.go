package teams

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	"github.com/imamik/blueprints/internal/util/naming"
	"github.com/imamik/blueprints/pkg/blueprint"
)

// Quota limits an application team namespace. Empty fields are not limited.
type Quota struct {
	CPU    string
	Memory string
	Pods   string
}

// ApplicationTeam owns one namespace and can read the rest of the cluster.
type ApplicationTeam struct {
	TeamName string
	// Namespace defaults to the team name.
	Namespace string
	Users     []string
	Quota     *Quota
}

var _ blueprint.Team = (*ApplicationTeam)(nil)

// Name implements blueprint.Team.
func (t *ApplicationTeam) Name() string {
	return t.TeamName
}

// Setup creates the namespace, grants admin inside it and view everywhere,
// then applies the quota if one is set.
func (t *ApplicationTeam) Setup(ctx context.Context, info *blueprint.ClusterInfo) error {
	s, err := newScope(info, t.TeamName, t.Namespace)
	if err != nil {
		return err
	}
	if err := s.ensureNamespace(ctx); err != nil {
		return err
	}

	subs := subjects(t.TeamName, t.Users)
	if err := s.ensureRoleBinding(ctx, naming.TeamAdminBinding(t.TeamName), clusterRole("admin"), subs); err != nil {
		return err
	}
	if err := s.ensureClusterRoleBinding(ctx, naming.TeamViewBinding(t.TeamName), clusterRole("view"), subs); err != nil {
		return err
	}

	if t.Quota == nil {
		return nil
	}
	hard, err := t.Quota.resourceList()
	if err != nil {
		return fmt.Errorf("team %s: %w", t.TeamName, err)
	}
	quota := &corev1.ResourceQuota{ObjectMeta: metav1.ObjectMeta{Name: naming.TeamQuota(t.TeamName), Namespace: s.namespace}}
	_, err = controllerutil.CreateOrUpdate(ctx, s.c, quota, func() error {
		quota.Labels = mergeLabels(quota.Labels, s.labels)
		quota.Spec.Hard = hard
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to ensure resource quota for team %s: %w", t.TeamName, err)
	}
	return nil
}

func (q *Quota) resourceList() (corev1.ResourceList, error) {
	hard := corev1.ResourceList{}
	for name, value := range map[corev1.ResourceName]string{
		corev1.ResourceLimitsCPU:    q.CPU,
		corev1.ResourceLimitsMemory: q.Memory,
		corev1.ResourcePods:         q.Pods,
	} {
		if value == "" {
			continue
		}
		qty, err := resource.ParseQuantity(value)
		if err != nil {
			return nil, fmt.Errorf("invalid quota %s %q: %w", name, value, err)
		}
		hard[name] = qty
	}
	return hard, nil
}
