// Package addons provides the add-ons a blueprint file can declare:
// plain manifests, locally rendered Helm charts and generated secrets.
//
// Add-ons talk to the cluster through the controller-runtime client carried
// by blueprint.ClusterInfo. Add-ons declared with wait return a pending
// completion that polls their workloads until ready, so the orchestrator can
// continue with later add-ons and teams in the meantime.
package addons
