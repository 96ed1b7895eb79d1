package blueprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_CloneIsolation(t *testing.T) {
	t.Parallel()
	cp := &fakeClusterProvider{}
	base := newTestBuilder(cp).
		Account("111111111111").
		AddOns(&fakeAddOn{name: "logging"}).
		Teams(&fakeTeam{name: "platform"})

	dev := base.Clone(CloneRegion("fsn1")).AddOns(&fakeAddOn{name: "dev-tools"})
	prod := base.Clone(CloneRegion("nbg1"), CloneAccount("222222222222")).
		AddOns(&fakeAddOn{name: "gitops"}).
		Teams(&fakeTeam{name: "app"})

	assert.Len(t, base.Config().AddOns, 1)
	assert.Len(t, base.Config().Teams, 1)
	assert.Empty(t, base.Config().Region)

	devCfg := dev.Config()
	assert.Equal(t, "fsn1", devCfg.Region)
	assert.Equal(t, "111111111111", devCfg.Account)
	require.Len(t, devCfg.AddOns, 2)
	assert.Equal(t, "dev-tools", devCfg.AddOns[1].Name())
	assert.Len(t, devCfg.Teams, 1)

	prodCfg := prod.Config()
	assert.Equal(t, "nbg1", prodCfg.Region)
	assert.Equal(t, "222222222222", prodCfg.Account)
	require.Len(t, prodCfg.AddOns, 2)
	assert.Equal(t, "gitops", prodCfg.AddOns[1].Name())
	assert.Len(t, prodCfg.Teams, 2)
}

func TestBuilder_CloneDoesNotShareBackingArrays(t *testing.T) {
	t.Parallel()
	// Spare capacity in the base slice must not leak appends between clones.
	base := NewBuilder()
	base.draft.AddOns = make([]AddOn, 0, 8)
	base.AddOns(&fakeAddOn{name: "a"})

	left := base.Clone().AddOns(&fakeAddOn{name: "left"})
	right := base.Clone().AddOns(&fakeAddOn{name: "right"})

	assert.Equal(t, "left", left.Config().AddOns[1].Name())
	assert.Equal(t, "right", right.Config().AddOns[1].Name())
	assert.Len(t, base.Config().AddOns, 1)
}

func TestBuilder_BuildFreezesConfiguration(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(&fakeClusterProvider{}).AddOns(&fakeAddOn{name: "a"})

	bp, err := b.Build(NewApp(), "frozen")
	require.NoError(t, err)

	b.AddOns(&fakeAddOn{name: "b"}).Teams(&fakeTeam{name: "late"})

	assert.Len(t, bp.Config().AddOns, 1)
	assert.Empty(t, bp.Config().Teams)
	assert.Equal(t, "frozen", bp.ID())
}

func TestBuilder_BuildTwiceWithDifferentIDs(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(&fakeClusterProvider{}).Name("shared")

	first, err := b.Build(NewApp(), "first")
	require.NoError(t, err)
	second, err := b.Build(NewApp(), "second")
	require.NoError(t, err)

	assert.Equal(t, "first", first.Stack().ID)
	assert.Equal(t, "second", second.Stack().ID)
	assert.Equal(t, "shared", second.Stack().Name)
}

func TestBuilder_ResourceProviderReplacesInPlace(t *testing.T) {
	t.Parallel()
	first := &countingProvider{value: 1}
	second := &countingProvider{value: 2}

	cfg := NewBuilder().
		ResourceProvider("kms", first).
		ResourceProvider("bucket", &countingProvider{}).
		ResourceProvider("kms", second).
		Config()

	require.Len(t, cfg.ResourceProviders, 2)
	assert.Equal(t, "kms", cfg.ResourceProviders[0].Key)
	assert.Same(t, second, cfg.ResourceProviders[0].Provider)
}

func TestBuilder_WithConfig(t *testing.T) {
	t.Parallel()
	cp := &fakeClusterProvider{}
	b := NewBuilder().
		Name("base").
		Region("fsn1").
		AddOns(&fakeAddOn{name: "logging"}).
		WithConfig(Config{
			Region:          "hel1",
			ClusterProvider: cp,
			Version:         V1_30,
			AddOns:          []AddOn{&fakeAddOn{name: "gitops"}},
			Teams:           []Team{&fakeTeam{name: "app"}},
		})

	cfg := b.Config()
	assert.Equal(t, "base", cfg.Name)
	assert.Equal(t, "hel1", cfg.Region)
	assert.Equal(t, V1_30, cfg.Version)
	assert.Same(t, cp, cfg.ClusterProvider)
	require.Len(t, cfg.AddOns, 2)
	assert.Equal(t, "logging", cfg.AddOns[0].Name())
	assert.Equal(t, "gitops", cfg.AddOns[1].Name())
	assert.Len(t, cfg.Teams, 1)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()
	cp := &fakeClusterProvider{}

	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{name: "missing id", cfg: Config{ClusterProvider: cp}, field: "id"},
		{name: "missing cluster provider", cfg: Config{ID: "x"}, field: "clusterProvider"},
		{name: "invalid version", cfg: Config{ID: "x", ClusterProvider: cp, Version: "latest"}, field: "version"},
		{name: "nil add-on", cfg: Config{ID: "x", ClusterProvider: cp, AddOns: []AddOn{nil}}, field: "addOns[0]"},
		{name: "nil team", cfg: Config{ID: "x", ClusterProvider: cp, Teams: []Team{nil}}, field: "teams[0]"},
		{name: "unnamed team", cfg: Config{ID: "x", ClusterProvider: cp, Teams: []Team{&fakeTeam{}}}, field: "teams[0]"},
		{
			name:  "nil provider",
			cfg:   Config{ID: "x", ClusterProvider: cp, ResourceProviders: []NamedProvider{{Key: "kms"}}},
			field: "resourceProviders[kms]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}
