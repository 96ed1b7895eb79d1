// Package cluster provides cluster providers for blueprints.
//
// [KubeconfigProvider] adopts an existing cluster reachable through a
// kubeconfig: it builds a controller-runtime client for it and checks that
// the API server runs the Kubernetes minor version the blueprint asks for.
package cluster
