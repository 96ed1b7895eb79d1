package blueprint

import "fmt"

// NamedProvider is a resource provider registered under a key.
type NamedProvider struct {
	Key      string
	Provider ResourceProvider
}

// Config is the declarative configuration of a blueprint.
//
// A Config handed to New is copied, so later changes to the caller's slices
// do not affect a built blueprint.
type Config struct {
	// ID identifies the blueprint.
	ID string

	// Name defaults to ID when empty.
	Name string

	// Account and Region place the blueprint's stack.
	Account string
	Region  string

	ClusterProvider ClusterProvider

	// Version defaults to DefaultVersion when empty.
	Version KubernetesVersion

	// AddOns are deployed in this order.
	AddOns []AddOn

	// Teams are set up in this order. Names must be unique.
	Teams []Team

	// ResourceProviders are resolved in this order, network first.
	ResourceProviders []NamedProvider
}

// Copy returns a structural copy of the configuration. Add-ons, teams and
// providers are shared by reference; the containers holding them are not.
func (c Config) Copy() Config {
	out := c
	out.AddOns = append([]AddOn(nil), c.AddOns...)
	out.Teams = append([]Team(nil), c.Teams...)
	out.ResourceProviders = append([]NamedProvider(nil), c.ResourceProviders...)
	return out
}

// Validate checks the configuration before anything is provisioned.
func (c *Config) Validate() error {
	if c.ID == "" {
		return &ConfigurationError{Field: "id", Message: "blueprint id is required"}
	}
	if c.ClusterProvider == nil {
		return &ConfigurationError{Field: "clusterProvider", Message: "cluster provider is required"}
	}
	if c.Version != "" {
		if _, err := c.Version.Semver(); err != nil {
			return &ConfigurationError{Field: "version", Message: err.Error()}
		}
	}

	for i, addOn := range c.AddOns {
		if addOn == nil {
			return &ConfigurationError{Field: fmt.Sprintf("addOns[%d]", i), Message: "add-on is nil"}
		}
	}

	teamNames := make(map[string]struct{}, len(c.Teams))
	for i, team := range c.Teams {
		if team == nil {
			return &ConfigurationError{Field: fmt.Sprintf("teams[%d]", i), Message: "team is nil"}
		}
		name := team.Name()
		if name == "" {
			return &ConfigurationError{Field: fmt.Sprintf("teams[%d]", i), Message: "team name is required"}
		}
		if _, exists := teamNames[name]; exists {
			return &ConfigurationError{Field: "teams", Message: fmt.Sprintf("team %s is registered more than once", name)}
		}
		teamNames[name] = struct{}{}
	}

	for i, p := range c.ResourceProviders {
		if p.Key == "" {
			return &ConfigurationError{Field: fmt.Sprintf("resourceProviders[%d]", i), Message: "resource key is required"}
		}
		if p.Provider == nil {
			return &ConfigurationError{Field: fmt.Sprintf("resourceProviders[%s]", p.Key), Message: "provider is nil"}
		}
	}
	return nil
}

// withDefaults fills in the name and version.
func (c Config) withDefaults() Config {
	if c.Name == "" {
		c.Name = c.ID
	}
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	return c
}

// setProvider registers a provider, replacing an existing one with the same
// key in place.
func (c *Config) setProvider(key string, provider ResourceProvider) {
	for i := range c.ResourceProviders {
		if c.ResourceProviders[i].Key == key {
			c.ResourceProviders[i].Provider = provider
			return
		}
	}
	c.ResourceProviders = append(c.ResourceProviders, NamedProvider{Key: key, Provider: provider})
}
