package resources

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/blueprints/internal/config"
	hcloudplatform "github.com/imamik/blueprints/internal/platform/hcloud"
	"github.com/imamik/blueprints/internal/util/labels"
	"github.com/imamik/blueprints/pkg/blueprint"
)

// subnetBits is the prefix length added to the network range for each subnet.
const subnetBits = 8

// HCloudNetworkBackend implements blueprint.NetworkBackend on top of Hetzner
// Cloud networks.
//
// Hetzner has no account default network, so the default network is the one
// labelled blueprints.io/default=true. Subnet roles are not part of the
// Hetzner model either: the first N subnets of a network are public, where N
// is read from the blueprints.io/public-subnets label.
type HCloudNetworkBackend struct {
	networks hcloudplatform.NetworkManager
}

var _ blueprint.NetworkBackend = (*HCloudNetworkBackend)(nil)

// NewHCloudNetworkBackend creates a network backend using the given manager.
func NewHCloudNetworkBackend(networks hcloudplatform.NetworkManager) *HCloudNetworkBackend {
	return &HCloudNetworkBackend{networks: networks}
}

// DefaultNetwork implements blueprint.NetworkBackend.
func (b *HCloudNetworkBackend) DefaultNetwork(ctx context.Context) (*blueprint.Network, error) {
	network, err := b.networks.FindNetwork(ctx, labels.SelectorDefault())
	if err != nil {
		return nil, fmt.Errorf("failed to look up default network: %w", err)
	}
	if network == nil {
		return nil, fmt.Errorf("no network is labelled %s", labels.SelectorDefault())
	}
	out := convertNetwork(network)
	out.Default = true
	return out, nil
}

// GetNetwork implements blueprint.NetworkBackend. A missing network yields
// nil without error.
func (b *HCloudNetworkBackend) GetNetwork(ctx context.Context, idOrName string) (*blueprint.Network, error) {
	network, err := b.networks.GetNetwork(ctx, idOrName)
	if err != nil {
		return nil, fmt.Errorf("failed to get network %s: %w", idOrName, err)
	}
	if network == nil {
		return nil, nil
	}
	return convertNetwork(network), nil
}

// CreateNetwork implements blueprint.NetworkBackend. Subnets are carved out
// of the network range in order, public subnets first. A network created by
// the call is deleted again when one of its subnets cannot be added.
func (b *HCloudNetworkBackend) CreateNetwork(ctx context.Context, name string, topology blueprint.NetworkTopology) (*blueprint.Network, error) {
	if topology.PublicSubnets < 0 || topology.PrivateSubnets < 0 {
		return nil, errors.New("subnet counts must not be negative")
	}
	count := topology.PublicSubnets + topology.PrivateSubnets
	ranges, err := config.SplitSubnets(topology.IPRange, subnetBits, count)
	if err != nil {
		return nil, fmt.Errorf("failed to plan subnets for %s: %w", name, err)
	}

	networkLabels := maps.Clone(topology.Labels)
	if networkLabels == nil {
		networkLabels = make(map[string]string)
	}
	networkLabels[labels.KeyManagedBy] = labels.ManagedByBlueprints
	networkLabels[labels.KeyPublicSubnets] = strconv.Itoa(topology.PublicSubnets)

	existing, err := b.networks.GetNetwork(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up network %s: %w", name, err)
	}

	network, err := b.networks.EnsureNetwork(ctx, name, topology.IPRange, networkLabels)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure network %s: %w", name, err)
	}

	for _, subnet := range ranges {
		if err := b.networks.EnsureSubnet(ctx, network, subnet, topology.Zone, hcloud.NetworkSubnetTypeCloud); err != nil {
			err = fmt.Errorf("failed to ensure subnet %s: %w", subnet, err)
			if existing == nil {
				// Only a network created by this call is removed again.
				if delErr := b.networks.DeleteNetwork(context.WithoutCancel(ctx), name); delErr != nil {
					err = errors.Join(err, fmt.Errorf("failed to remove network %s: %w", name, delErr))
				}
			}
			return nil, err
		}
	}

	out := convertNetwork(network)
	if out.Zone == "" {
		out.Zone = topology.Zone
	}
	return out, nil
}

func convertNetwork(n *hcloud.Network) *blueprint.Network {
	out := &blueprint.Network{
		ID:     n.ID,
		Name:   n.Name,
		Labels: maps.Clone(n.Labels),
	}
	if n.IPRange != nil {
		out.IPRange = n.IPRange.String()
	}

	public, _ := strconv.Atoi(n.Labels[labels.KeyPublicSubnets])
	for i, s := range n.Subnets {
		role := blueprint.SubnetPrivate
		if i < public {
			role = blueprint.SubnetPublic
		}
		subnet := blueprint.Subnet{Role: role}
		if s.IPRange != nil {
			subnet.IPRange = s.IPRange.String()
		}
		out.Subnets = append(out.Subnets, subnet)
		if out.Zone == "" {
			out.Zone = string(s.NetworkZone)
		}
	}
	return out
}
