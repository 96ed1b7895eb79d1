// Package blueprint provides the declarative cluster blueprint engine.
//
// A blueprint describes one deployable environment: the cluster provider, the
// named resources the cluster depends on, an ordered list of add-ons and an
// ordered list of teams. Blueprints are assembled with a [Builder] and turned
// into a [Blueprint] by [Builder.Build]; [Blueprint.Deploy] runs the
// orchestration.
//
// # Deployment Order
//
// Deploy runs the following phases, stopping at the first fatal error:
//
//  1. validation (duplicate team names, missing cluster provider)
//  2. resource resolution (network first, then every registered provider)
//  3. cluster provisioning
//  4. add-on deployment, strictly in declared order
//  5. team setup, strictly in declared order
//  6. join of all pending add-on completions (bounded by a timeout)
//  7. post-deploy hooks, in declared add-on order
//
// Declaration order is the dependency contract. There is no dependency graph:
// an add-on that consumes a secret published by another add-on must be
// declared after it.
//
// # Resources
//
// Named resources are produced by [ResourceProvider] implementations and
// memoized in a per-run [ResourceRegistry]. Providers and add-ons look
// resources up through the registry carried by [ResourceContext] and
// [ClusterInfo]; there is no process-wide resource state.
package blueprint
