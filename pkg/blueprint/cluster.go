package blueprint

import (
	"sync"

	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Cluster identifies a provisioned cluster.
type Cluster struct {
	Name     string
	Version  KubernetesVersion
	Endpoint string
}

// ClusterInfo is the shared context passed to every add-on, team and hook.
//
// The cluster identity is fixed when the cluster provider returns. Add-ons may
// attach derived data with SetData; attachments are safe for concurrent use
// because pending completions run in their own goroutines.
type ClusterInfo struct {
	cluster Cluster

	// Stack is the provisioning scope the cluster belongs to.
	Stack *Stack

	// Network is the network the cluster is attached to.
	Network *Network

	// Kubeconfig grants administrative access to the cluster.
	Kubeconfig []byte

	// Client talks to the cluster API.
	Client client.Client

	// Resources gives read access to the resolved named resources.
	Resources *ResourceRegistry

	mu   sync.RWMutex
	data map[string]any
}

// NewClusterInfo creates cluster info for a provisioned cluster.
func NewClusterInfo(cluster Cluster, network *Network, c client.Client, kubeconfig []byte) *ClusterInfo {
	return &ClusterInfo{
		cluster:    cluster,
		Network:    network,
		Client:     c,
		Kubeconfig: kubeconfig,
		data:       make(map[string]any),
	}
}

// Cluster returns the cluster identity.
func (ci *ClusterInfo) Cluster() Cluster {
	return ci.cluster
}

// SetData attaches derived data under key, replacing any previous value.
func (ci *ClusterInfo) SetData(key string, value any) {
	ci.mu.Lock()
	defer ci.mu.Unlock()
	if ci.data == nil {
		ci.data = make(map[string]any)
	}
	ci.data[key] = value
}

// Data returns the data attached under key.
func (ci *ClusterInfo) Data(key string) (any, bool) {
	ci.mu.RLock()
	defer ci.mu.RUnlock()
	v, ok := ci.data[key]
	return v, ok
}

// Resource looks up a resolved named resource.
func (ci *ClusterInfo) Resource(key string) (any, error) {
	if ci.Resources == nil {
		return nil, &NotFoundError{Key: key}
	}
	return ci.Resources.Lookup(key)
}
