package hcloud

import (
	"context"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// NetworkManager defines the interface for managing networks.
type NetworkManager interface {
	EnsureNetwork(ctx context.Context, name, ipRange string, labels map[string]string) (*hcloud.Network, error)
	EnsureSubnet(ctx context.Context, network *hcloud.Network, ipRange, networkZone string, subnetType hcloud.NetworkSubnetType) error
	// GetNetwork returns the network with the given ID or name, or nil if
	// it does not exist.
	GetNetwork(ctx context.Context, idOrName string) (*hcloud.Network, error)
	// FindNetwork returns the single network matching a label selector, or
	// nil if none matches.
	FindNetwork(ctx context.Context, labelSelector string) (*hcloud.Network, error)
	DeleteNetwork(ctx context.Context, name string) error
}
