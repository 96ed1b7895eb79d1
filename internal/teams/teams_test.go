package teams

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/imamik/blueprints/internal/config"
	"github.com/imamik/blueprints/internal/util/labels"
	"github.com/imamik/blueprints/pkg/blueprint"
)

func newClusterInfo(t *testing.T) (*blueprint.ClusterInfo, client.Client) {
	t.Helper()
	scheme := runtime.NewScheme()
	require.NoError(t, clientgoscheme.AddToScheme(scheme))
	c := fake.NewClientBuilder().WithScheme(scheme).Build()

	info := blueprint.NewClusterInfo(blueprint.Cluster{Name: "east"}, nil, c, nil)
	info.Stack = &blueprint.Stack{ID: "east"}
	return info, c
}

func TestPlatformTeam_Setup(t *testing.T) {
	t.Parallel()

	info, c := newClusterInfo(t)
	team := &PlatformTeam{TeamName: "platform", Users: []string{"alice"}}

	require.NoError(t, team.Setup(context.Background(), info))
	require.NoError(t, team.Setup(context.Background(), info), "setup is repeatable")

	var ns corev1.Namespace
	require.NoError(t, c.Get(context.Background(), client.ObjectKey{Name: "platform"}, &ns))
	assert.Equal(t, "platform", ns.Labels[labels.KeyTeam])
	assert.Equal(t, "east", ns.Labels[labels.KeyBlueprint])

	var crb rbacv1.ClusterRoleBinding
	require.NoError(t, c.Get(context.Background(), client.ObjectKey{Name: "platform-team-admin"}, &crb))
	assert.Equal(t, "cluster-admin", crb.RoleRef.Name)
	assert.Equal(t, []rbacv1.Subject{
		{APIGroup: rbacv1.GroupName, Kind: rbacv1.GroupKind, Name: "team:platform"},
		{APIGroup: rbacv1.GroupName, Kind: rbacv1.UserKind, Name: "alice"},
	}, crb.Subjects)
}

func TestApplicationTeam_Setup(t *testing.T) {
	t.Parallel()

	info, c := newClusterInfo(t)
	team := &ApplicationTeam{
		TeamName:  "team-a",
		Namespace: "apps-a",
		Quota:     &Quota{CPU: "4", Memory: "8Gi"},
	}
	require.NoError(t, team.Setup(context.Background(), info))

	var admin rbacv1.RoleBinding
	require.NoError(t, c.Get(context.Background(), client.ObjectKey{Namespace: "apps-a", Name: "team-a-team-admin"}, &admin))
	assert.Equal(t, "admin", admin.RoleRef.Name)

	var view rbacv1.ClusterRoleBinding
	require.NoError(t, c.Get(context.Background(), client.ObjectKey{Name: "team-a-team-view"}, &view))
	assert.Equal(t, "view", view.RoleRef.Name)

	var quota corev1.ResourceQuota
	require.NoError(t, c.Get(context.Background(), client.ObjectKey{Namespace: "apps-a", Name: "team-a-quota"}, &quota))
	assert.True(t, quota.Spec.Hard[corev1.ResourceLimitsCPU].Equal(resource.MustParse("4")))
	assert.True(t, quota.Spec.Hard[corev1.ResourceLimitsMemory].Equal(resource.MustParse("8Gi")))
	_, limited := quota.Spec.Hard[corev1.ResourcePods]
	assert.False(t, limited)
}

func TestApplicationTeam_NoQuota(t *testing.T) {
	t.Parallel()

	info, c := newClusterInfo(t)
	require.NoError(t, (&ApplicationTeam{TeamName: "team-b"}).Setup(context.Background(), info))

	var list corev1.ResourceQuotaList
	require.NoError(t, c.List(context.Background(), &list))
	assert.Empty(t, list.Items)

	var ns corev1.Namespace
	require.NoError(t, c.Get(context.Background(), client.ObjectKey{Name: "team-b"}, &ns))
}

func TestApplicationTeam_InvalidQuota(t *testing.T) {
	t.Parallel()

	info, _ := newClusterInfo(t)
	err := (&ApplicationTeam{TeamName: "team-c", Quota: &Quota{Pods: "lots"}}).Setup(context.Background(), info)
	require.ErrorContains(t, err, "invalid quota pods")
}

func TestSetup_NoClient(t *testing.T) {
	t.Parallel()

	info := blueprint.NewClusterInfo(blueprint.Cluster{Name: "east"}, nil, nil, nil)
	require.Error(t, (&PlatformTeam{TeamName: "p"}).Setup(context.Background(), info))
	require.Error(t, (&ApplicationTeam{TeamName: "a"}).Setup(context.Background(), info))
}

func TestFromSpec(t *testing.T) {
	t.Parallel()

	team, err := FromSpec(config.TeamSpec{Name: "platform", Type: config.TeamPlatform})
	require.NoError(t, err)
	assert.IsType(t, &PlatformTeam{}, team)

	team, err = FromSpec(config.TeamSpec{
		Name:  "team-a",
		Type:  config.TeamApplication,
		Users: []string{"bob"},
		Quota: &config.QuotaSpec{Pods: "20"},
	})
	require.NoError(t, err)
	app, ok := team.(*ApplicationTeam)
	require.True(t, ok)
	assert.Equal(t, "team-a", app.Name())
	assert.Equal(t, &Quota{Pods: "20"}, app.Quota)

	_, err = FromSpec(config.TeamSpec{Name: "x", Type: "guest"})
	require.Error(t, err)
}
