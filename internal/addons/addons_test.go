package addons

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/imamik/blueprints/internal/config"
	"github.com/imamik/blueprints/internal/resources"
	"github.com/imamik/blueprints/internal/util/keygen"
	"github.com/imamik/blueprints/internal/util/labels"
	"github.com/imamik/blueprints/pkg/blueprint"
)

const deploymentManifest = `apiVersion: apps/v1
kind: Deployment
metadata:
  name: fluent-bit
spec:
  replicas: 1
  selector:
    matchLabels:
      app: fluent-bit
  template:
    metadata:
      labels:
        app: fluent-bit
    spec:
      containers:
      - name: fluent-bit
        image: fluent/fluent-bit:3.0
`

type namedTeam string

func (t namedTeam) Name() string { return string(t) }

func (t namedTeam) Setup(context.Context, *blueprint.ClusterInfo) error { return nil }

func newClusterInfo(t *testing.T) (*blueprint.ClusterInfo, client.Client) {
	t.Helper()
	scheme := runtime.NewScheme()
	require.NoError(t, clientgoscheme.AddToScheme(scheme))
	c := fake.NewClientBuilder().WithScheme(scheme).Build()

	info := blueprint.NewClusterInfo(blueprint.Cluster{Name: "east", Version: blueprint.V1_31}, nil, c, nil)
	info.Stack = &blueprint.Stack{ID: "east"}
	info.Resources = blueprint.NewResourceRegistry()
	return info, c
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestManifestAddOn_Sync(t *testing.T) {
	t.Parallel()

	info, c := newClusterInfo(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.yaml"), "apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: second\n")
	writeFile(t, filepath.Join(dir, "a.yml"), "apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: first\n")
	writeFile(t, filepath.Join(dir, "README.md"), "not a manifest")

	addOn := &ManifestAddOn{AddOnName: "logging", Namespace: "logging", Paths: []string{dir}}
	pending, err := addOn.Deploy(context.Background(), info)
	require.NoError(t, err)
	assert.Nil(t, pending)

	var ns corev1.Namespace
	require.NoError(t, c.Get(context.Background(), client.ObjectKey{Name: "logging"}, &ns))
	assert.Equal(t, "logging", ns.Labels[labels.KeyAddOn])

	for _, name := range []string{"first", "second"} {
		var cm corev1.ConfigMap
		require.NoError(t, c.Get(context.Background(), client.ObjectKey{Namespace: "logging", Name: name}, &cm))
		assert.Equal(t, "east", cm.Labels[labels.KeyBlueprint])
	}
}

func TestManifestAddOn_WaitReturnsPending(t *testing.T) {
	t.Parallel()

	info, c := newClusterInfo(t)
	path := filepath.Join(t.TempDir(), "deploy.yaml")
	writeFile(t, path, deploymentManifest)

	addOn := &ManifestAddOn{AddOnName: "logging", Namespace: "logging", Paths: []string{path}, Wait: true, PollInterval: 5 * time.Millisecond}
	pending, err := addOn.Deploy(context.Background(), info)
	require.NoError(t, err)
	require.NotNil(t, pending)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	require.Error(t, pending.Wait(ctx), "deployment is not ready yet")

	var d appsv1.Deployment
	require.NoError(t, c.Get(context.Background(), client.ObjectKey{Namespace: "logging", Name: "fluent-bit"}, &d))
	d.Status.ReadyReplicas = 1
	d.Status.ObservedGeneration = d.Generation
	require.NoError(t, c.Status().Update(context.Background(), &d))

	require.NoError(t, pending.Wait(context.Background()))
}

func TestManifestAddOn_MissingFile(t *testing.T) {
	t.Parallel()

	info, _ := newClusterInfo(t)
	addOn := &ManifestAddOn{AddOnName: "logging", Namespace: "logging", Paths: []string{"/does/not/exist.yaml"}}
	_, err := addOn.Deploy(context.Background(), info)
	require.ErrorContains(t, err, "logging: failed to read manifest")
}

func TestAddOn_NoClient(t *testing.T) {
	t.Parallel()

	info := blueprint.NewClusterInfo(blueprint.Cluster{Name: "east"}, nil, nil, nil)
	path := filepath.Join(t.TempDir(), "cm.yaml")
	writeFile(t, path, "apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: x\n")

	_, err := (&ManifestAddOn{AddOnName: "x", Namespace: "x", Paths: []string{path}}).Deploy(context.Background(), info)
	require.ErrorContains(t, err, "no client")
}

func TestHelmAddOn_DeployAndPostDeploy(t *testing.T) {
	t.Parallel()

	info, c := newClusterInfo(t)
	chart := filepath.Join(t.TempDir(), "gitops")
	writeFile(t, filepath.Join(chart, "Chart.yaml"), "apiVersion: v2\nname: gitops\nversion: 1.0.0\n")
	writeFile(t, filepath.Join(chart, "values.yaml"), "level: info\nextra: keep\n")
	writeFile(t, filepath.Join(chart, "templates", "cm.yaml"), `apiVersion: v1
kind: ConfigMap
metadata:
  name: {{ .Release.Name }}-settings
data:
  level: {{ .Values.level | quote }}
  extra: {{ .Values.extra | quote }}
  kube: {{ .Capabilities.KubeVersion.Minor | quote }}
`)
	valuesFile := filepath.Join(t.TempDir(), "values.yaml")
	writeFile(t, valuesFile, "level: warn\n")

	addOn := &HelmAddOn{
		AddOnName:   "gitops",
		Namespace:   "argocd",
		Chart:       chart,
		ValuesFiles: []string{valuesFile},
		Values:      map[string]any{"level": "debug"},
		TeamAccess:  true,
	}

	pending, err := addOn.Deploy(context.Background(), info)
	require.NoError(t, err)
	assert.Nil(t, pending)

	var cm corev1.ConfigMap
	require.NoError(t, c.Get(context.Background(), client.ObjectKey{Namespace: "argocd", Name: "gitops-settings"}, &cm))
	assert.Equal(t, map[string]string{"level": "debug", "extra": "keep", "kube": "31"}, cm.Data)

	hook, ok := blueprint.PostDeployHookFor(addOn)
	require.True(t, ok)
	require.NoError(t, hook.PostDeploy(context.Background(), info, []blueprint.Team{namedTeam("team-a"), namedTeam("team-b")}))
	// Running again updates in place.
	require.NoError(t, hook.PostDeploy(context.Background(), info, []blueprint.Team{namedTeam("team-a")}))

	var binding rbacv1.RoleBinding
	require.NoError(t, c.Get(context.Background(), client.ObjectKey{Namespace: "argocd", Name: "gitops-team-b-view"}, &binding))
	assert.Equal(t, "view", binding.RoleRef.Name)
	require.Len(t, binding.Subjects, 1)
	assert.Equal(t, "team:team-b", binding.Subjects[0].Name)
	assert.Equal(t, "team-b", binding.Labels[labels.KeyTeam])
}

func TestHelmAddOn_NoTeamAccess(t *testing.T) {
	t.Parallel()

	info, c := newClusterInfo(t)
	addOn := &HelmAddOn{AddOnName: "gitops", Namespace: "argocd"}
	require.NoError(t, addOn.PostDeploy(context.Background(), info, []blueprint.Team{namedTeam("team-a")}))

	var list rbacv1.RoleBindingList
	require.NoError(t, c.List(context.Background(), &list))
	assert.Empty(t, list.Items)
}

func TestSecretAddOn_Generated(t *testing.T) {
	t.Parallel()

	info, c := newClusterInfo(t)
	addOn := &SecretAddOn{AddOnName: "gitops-admin", Namespace: "argocd", SecretName: "argocd-secret"}

	pending, err := addOn.Deploy(context.Background(), info)
	require.NoError(t, err)
	assert.Nil(t, pending)

	var secret corev1.Secret
	require.NoError(t, c.Get(context.Background(), client.ObjectKey{Namespace: "argocd", Name: "argocd-secret"}, &secret))
	plain := string(secret.Data[SecretPasswordKey])
	assert.Len(t, plain, keygen.DefaultPasswordLength)
	assert.True(t, keygen.CheckPassword(string(secret.Data[SecretHashKey]), plain))
}

func TestSecretAddOn_SharedPassword(t *testing.T) {
	t.Parallel()

	info, c := newClusterInfo(t)
	require.NoError(t, info.Resources.Register("admin", &resources.PasswordProvider{}))
	rc := &blueprint.ResourceContext{Context: context.Background(), Stack: info.Stack, Resources: info.Resources}
	require.NoError(t, info.Resources.ResolveAll(rc))

	for _, name := range []string{"first", "second"} {
		addOn := &SecretAddOn{AddOnName: name, Namespace: "shared", SecretName: name, PasswordResource: "admin"}
		_, err := addOn.Deploy(context.Background(), info)
		require.NoError(t, err)
	}

	var first, second corev1.Secret
	require.NoError(t, c.Get(context.Background(), client.ObjectKey{Namespace: "shared", Name: "first"}, &first))
	require.NoError(t, c.Get(context.Background(), client.ObjectKey{Namespace: "shared", Name: "second"}, &second))
	assert.Equal(t, first.Data, second.Data)
}

func TestSecretAddOn_ResourceErrors(t *testing.T) {
	t.Parallel()

	info, _ := newClusterInfo(t)
	_, err := (&SecretAddOn{AddOnName: "s", Namespace: "s", SecretName: "s", PasswordResource: "missing"}).Deploy(context.Background(), info)
	require.ErrorIs(t, err, blueprint.ErrNotFound)

	require.NoError(t, info.Resources.Register("logs", blueprint.ResourceProviderFunc(func(*blueprint.ResourceContext) (any, error) {
		return &resources.Bucket{Name: "logs"}, nil
	})))
	_, err = info.Resources.Resolve(&blueprint.ResourceContext{Context: context.Background(), Resources: info.Resources}, "logs")
	require.NoError(t, err)

	_, err = (&SecretAddOn{AddOnName: "s", Namespace: "s", SecretName: "s", PasswordResource: "logs"}).Deploy(context.Background(), info)
	require.ErrorContains(t, err, "not a password")
}

func TestFromSpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec       config.AddOnSpec
		want       any
		postDeploy bool
	}{
		{spec: config.AddOnSpec{Name: "m", Type: config.AddOnManifest, Manifests: []string{"a.yaml"}}, want: &ManifestAddOn{}},
		{spec: config.AddOnSpec{Name: "h", Type: config.AddOnHelm, Chart: "c"}, want: &HelmAddOn{}, postDeploy: true},
		{spec: config.AddOnSpec{Name: "s", Type: config.AddOnSecret, SecretName: "x"}, want: &SecretAddOn{}},
	}

	for _, tt := range tests {
		t.Run(tt.spec.Type, func(t *testing.T) {
			t.Parallel()
			addOn, err := FromSpec(tt.spec, time.Second)
			require.NoError(t, err)
			assert.IsType(t, tt.want, addOn)
			assert.Equal(t, tt.spec.Name, addOn.Name())
			_, ok := blueprint.PostDeployHookFor(addOn)
			assert.Equal(t, tt.postDeploy, ok)
		})
	}

	_, err := FromSpec(config.AddOnSpec{Type: "kustomize"}, time.Second)
	require.Error(t, err)
}

func TestCatalogCoversEveryType(t *testing.T) {
	t.Parallel()

	for _, entry := range Catalog() {
		_, err := FromSpec(config.AddOnSpec{Name: "x", Type: entry.Type}, time.Second)
		assert.NoError(t, err, entry.Type)
	}
}
