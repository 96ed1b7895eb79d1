package blueprint

// BlueprintBuilder accumulates a blueprint configuration through chainable
// calls. A builder can describe a blueprint in an abstract state (no account,
// no region) and be cloned into concrete variants:
//
//	base := blueprint.NewBuilder().
//	    ResourceProvider(blueprint.NetworkResource, blueprint.NewNetworkProvider(backend, "default"))
//
//	dev, err := base.Clone().AddOns(logging).Build(app, "dev")
//	prod, err := base.Clone().AddOns(logging, gitops).Build(app, "prod")
//
// Every call mutates the builder's private draft; Clone copies it so branches
// never share add-on, team or provider containers.
type BlueprintBuilder struct {
	draft Config
}

// NewBuilder creates an empty builder.
func NewBuilder() *BlueprintBuilder {
	return &BlueprintBuilder{}
}

// Builder is an alias of NewBuilder.
func Builder() *BlueprintBuilder {
	return NewBuilder()
}

// ID sets the blueprint ID.
func (b *BlueprintBuilder) ID(id string) *BlueprintBuilder {
	b.draft.ID = id
	return b
}

// Name sets the blueprint name.
func (b *BlueprintBuilder) Name(name string) *BlueprintBuilder {
	b.draft.Name = name
	return b
}

// Account sets the target account.
func (b *BlueprintBuilder) Account(account string) *BlueprintBuilder {
	b.draft.Account = account
	return b
}

// Region sets the target region.
func (b *BlueprintBuilder) Region(region string) *BlueprintBuilder {
	b.draft.Region = region
	return b
}

// Version sets the Kubernetes version.
func (b *BlueprintBuilder) Version(version KubernetesVersion) *BlueprintBuilder {
	b.draft.Version = version
	return b
}

// ClusterProvider sets the cluster provider.
func (b *BlueprintBuilder) ClusterProvider(provider ClusterProvider) *BlueprintBuilder {
	b.draft.ClusterProvider = provider
	return b
}

// ResourceProvider registers a named resource provider. Registering a key
// twice keeps its original position and replaces the provider.
func (b *BlueprintBuilder) ResourceProvider(key string, provider ResourceProvider) *BlueprintBuilder {
	b.draft.setProvider(key, provider)
	return b
}

// AddOns appends add-ons, preserving call order.
func (b *BlueprintBuilder) AddOns(addOns ...AddOn) *BlueprintBuilder {
	b.draft.AddOns = append(b.draft.AddOns, addOns...)
	return b
}

// Teams appends teams, preserving call order.
func (b *BlueprintBuilder) Teams(teams ...Team) *BlueprintBuilder {
	b.draft.Teams = append(b.draft.Teams, teams...)
	return b
}

// WithConfig merges a partial configuration into the draft. Non-empty scalar
// fields replace the draft's values; add-ons, teams and resource providers
// are appended.
func (b *BlueprintBuilder) WithConfig(cfg Config) *BlueprintBuilder {
	if cfg.ID != "" {
		b.draft.ID = cfg.ID
	}
	if cfg.Name != "" {
		b.draft.Name = cfg.Name
	}
	if cfg.Account != "" {
		b.draft.Account = cfg.Account
	}
	if cfg.Region != "" {
		b.draft.Region = cfg.Region
	}
	if cfg.Version != "" {
		b.draft.Version = cfg.Version
	}
	if cfg.ClusterProvider != nil {
		b.draft.ClusterProvider = cfg.ClusterProvider
	}
	b.AddOns(cfg.AddOns...)
	b.Teams(cfg.Teams...)
	for _, p := range cfg.ResourceProviders {
		b.ResourceProvider(p.Key, p.Provider)
	}
	return b
}

// CloneOption adjusts a cloned builder.
type CloneOption func(*BlueprintBuilder)

// CloneRegion sets the region of the clone.
func CloneRegion(region string) CloneOption {
	return func(b *BlueprintBuilder) {
		b.draft.Region = region
	}
}

// CloneAccount sets the account of the clone.
func CloneAccount(account string) CloneOption {
	return func(b *BlueprintBuilder) {
		b.draft.Account = account
	}
}

// Clone returns a new builder starting from a copy of the current draft.
func (b *BlueprintBuilder) Clone(opts ...CloneOption) *BlueprintBuilder {
	clone := &BlueprintBuilder{draft: b.draft.Copy()}
	for _, opt := range opts {
		opt(clone)
	}
	return clone
}

// Config returns a copy of the accumulated configuration.
func (b *BlueprintBuilder) Config() Config {
	return b.draft.Copy()
}

// Build validates the accumulated configuration under the given ID and
// returns a blueprint ready to deploy. The builder can be reused afterwards.
func (b *BlueprintBuilder) Build(app *App, id string, opts ...BuildOption) (*Blueprint, error) {
	cfg := b.draft.Copy()
	cfg.ID = id
	return New(app, cfg, opts...)
}
