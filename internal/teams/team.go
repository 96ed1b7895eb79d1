package teams

import (
	"context"
	"errors"
	"fmt"
	"maps"

	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	"github.com/imamik/blueprints/internal/config"
	"github.com/imamik/blueprints/internal/util/labels"
	"github.com/imamik/blueprints/internal/util/naming"
	"github.com/imamik/blueprints/pkg/blueprint"
)

// FromSpec builds the team declared by spec.
func FromSpec(spec config.TeamSpec) (blueprint.Team, error) {
	switch spec.Type {
	case config.TeamPlatform:
		return &PlatformTeam{TeamName: spec.Name, Namespace: spec.Namespace, Users: spec.Users}, nil
	case config.TeamApplication:
		team := &ApplicationTeam{TeamName: spec.Name, Namespace: spec.Namespace, Users: spec.Users}
		if spec.Quota != nil {
			team.Quota = &Quota{CPU: spec.Quota.CPU, Memory: spec.Quota.Memory, Pods: spec.Quota.Pods}
		}
		return team, nil
	}
	return nil, fmt.Errorf("unknown team type %q", spec.Type)
}

// scope holds what every team object needs.
type scope struct {
	c         client.Client
	team      string
	namespace string
	labels    map[string]string
}

func newScope(info *blueprint.ClusterInfo, team, namespace string) (*scope, error) {
	if info.Client == nil {
		return nil, errors.New("cluster info has no client")
	}
	if namespace == "" {
		namespace = naming.TeamNamespace(team)
	}
	blueprintID := ""
	if info.Stack != nil {
		blueprintID = info.Stack.ID
	}
	return &scope{
		c:         info.Client,
		team:      team,
		namespace: namespace,
		labels:    labels.NewLabelBuilder(blueprintID).WithTeam(team).Build(),
	}, nil
}

// subjects maps the team group and its individual users.
func subjects(team string, users []string) []rbacv1.Subject {
	out := []rbacv1.Subject{{
		APIGroup: rbacv1.GroupName,
		Kind:     rbacv1.GroupKind,
		Name:     naming.TeamGroup(team),
	}}
	for _, u := range users {
		out = append(out, rbacv1.Subject{
			APIGroup: rbacv1.GroupName,
			Kind:     rbacv1.UserKind,
			Name:     u,
		})
	}
	return out
}

func clusterRole(name string) rbacv1.RoleRef {
	return rbacv1.RoleRef{APIGroup: rbacv1.GroupName, Kind: "ClusterRole", Name: name}
}

func (s *scope) ensureNamespace(ctx context.Context) error {
	ns := &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: s.namespace}}
	_, err := controllerutil.CreateOrUpdate(ctx, s.c, ns, func() error {
		ns.Labels = mergeLabels(ns.Labels, s.labels)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to ensure namespace %s: %w", s.namespace, err)
	}
	return nil
}

func (s *scope) ensureRoleBinding(ctx context.Context, name string, role rbacv1.RoleRef, subs []rbacv1.Subject) error {
	rb := &rbacv1.RoleBinding{ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: s.namespace}}
	_, err := controllerutil.CreateOrUpdate(ctx, s.c, rb, func() error {
		rb.Labels = mergeLabels(rb.Labels, s.labels)
		rb.RoleRef = role
		rb.Subjects = subs
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to ensure role binding %s/%s: %w", s.namespace, name, err)
	}
	return nil
}

func (s *scope) ensureClusterRoleBinding(ctx context.Context, name string, role rbacv1.RoleRef, subs []rbacv1.Subject) error {
	crb := &rbacv1.ClusterRoleBinding{ObjectMeta: metav1.ObjectMeta{Name: name}}
	_, err := controllerutil.CreateOrUpdate(ctx, s.c, crb, func() error {
		crb.Labels = mergeLabels(crb.Labels, s.labels)
		crb.RoleRef = role
		crb.Subjects = subs
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to ensure cluster role binding %s: %w", name, err)
	}
	return nil
}

func mergeLabels(existing, add map[string]string) map[string]string {
	if existing == nil {
		existing = make(map[string]string, len(add))
	}
	maps.Copy(existing, add)
	return existing
}
