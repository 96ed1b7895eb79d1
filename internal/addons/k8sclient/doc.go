// Package k8sclient applies add-on objects to a cluster through a
// controller-runtime client: multi-document YAML manifests, namespaces,
// secrets, and readiness polling of the workloads a manifest created.
package k8sclient
