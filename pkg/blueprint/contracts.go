package blueprint

import "context"

// ClusterProvider creates (or adopts) the cluster a blueprint deploys onto.
type ClusterProvider interface {
	// CreateCluster provisions the cluster inside the given stack using the
	// resolved network. A returned error aborts the run before any add-on.
	CreateCluster(ctx context.Context, stack *Stack, network *Network, version KubernetesVersion) (*ClusterInfo, error)
}

// ClusterProviderFunc adapts a function to the ClusterProvider interface.
type ClusterProviderFunc func(ctx context.Context, stack *Stack, network *Network, version KubernetesVersion) (*ClusterInfo, error)

// CreateCluster implements ClusterProvider.
func (f ClusterProviderFunc) CreateCluster(ctx context.Context, stack *Stack, network *Network, version KubernetesVersion) (*ClusterInfo, error) {
	return f(ctx, stack, network, version)
}

// AddOn is an independently supplied unit of deployment logic.
type AddOn interface {
	// Name returns the add-on name used in logs, metrics and results.
	Name() string

	// Deploy installs the add-on. It may return a Pending for work that
	// continues after Deploy returns, or nil when it finished synchronously.
	Deploy(ctx context.Context, info *ClusterInfo) (Pending, error)
}

// PostDeployer is the optional add-on capability for work that must run only
// after every add-on in the blueprint has completed.
type PostDeployer interface {
	PostDeploy(ctx context.Context, info *ClusterInfo, teams []Team) error
}

// PostDeployHookFor returns the post-deploy capability of an add-on, if any.
func PostDeployHookFor(addOn AddOn) (PostDeployer, bool) {
	hook, ok := addOn.(PostDeployer)
	return hook, ok
}

// Team is a tenant-scoped configuration unit set up against the cluster.
type Team interface {
	// Name returns the team name. Names are unique within a blueprint.
	Name() string

	// Setup creates the team's namespace and access scaffolding.
	Setup(ctx context.Context, info *ClusterInfo) error
}

// ResourceProvider produces a named resource on demand.
type ResourceProvider interface {
	Provide(rc *ResourceContext) (any, error)
}

// ResourceProviderFunc adapts a function to the ResourceProvider interface.
type ResourceProviderFunc func(rc *ResourceContext) (any, error)

// Provide implements ResourceProvider.
func (f ResourceProviderFunc) Provide(rc *ResourceContext) (any, error) {
	return f(rc)
}

// ResourceContext is handed to resource providers during resolution.
type ResourceContext struct {
	context.Context

	// Stack is the provisioning scope of the blueprint being deployed.
	Stack *Stack

	// Resources gives access to other named resources. Resolving a key from
	// inside a provider resolves it on demand.
	Resources *ResourceRegistry

	Observer Observer
}

// Resolve resolves another named resource on demand.
func (rc *ResourceContext) Resolve(key string) (any, error) {
	return rc.Resources.Resolve(rc, key)
}
