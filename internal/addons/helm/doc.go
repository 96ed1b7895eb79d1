// Package helm renders local Helm charts into Kubernetes manifests.
//
// Charts are rendered client-side with the Helm engine and applied like any
// other manifest, so no release state is stored in the cluster. Values are
// deep-merged: chart defaults, then values files in order, then inline values.
package helm
