package blueprint

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/blueprints/internal/util/naming"
)

// NetworkResource is the reserved registry key of the cluster network.
const NetworkResource = "network"

// SubnetRole distinguishes public from private subnets.
type SubnetRole string

// Subnet roles.
const (
	SubnetPublic  SubnetRole = "public"
	SubnetPrivate SubnetRole = "private"
)

// Subnet is a subnet of a Network.
type Subnet struct {
	Role    SubnetRole
	IPRange string
}

// Network is the network a cluster is attached to.
type Network struct {
	ID      int64
	Name    string
	IPRange string
	Zone    string
	Subnets []Subnet
	Labels  map[string]string

	// Default is true when the network is the account's default network.
	Default bool
}

// SubnetsByRole returns the subnets with the given role.
func (n *Network) SubnetsByRole(role SubnetRole) []Subnet {
	var out []Subnet
	for _, s := range n.Subnets {
		if s.Role == role {
			out = append(out, s)
		}
	}
	return out
}

// NetworkTopology describes a network to create.
type NetworkTopology struct {
	IPRange string
	Zone    string

	// PublicSubnets and PrivateSubnets are the number of subnets per role.
	PublicSubnets  int
	PrivateSubnets int

	Labels map[string]string
}

// StandardTopology returns the topology used when a blueprint neither
// registers a network provider nor selects an existing network: one public
// and one private subnet inside 10.0.0.0/16.
func StandardTopology() NetworkTopology {
	return NetworkTopology{
		IPRange:        "10.0.0.0/16",
		Zone:           "eu-central",
		PublicSubnets:  1,
		PrivateSubnets: 1,
	}
}

// NetworkBackend looks up and creates networks.
type NetworkBackend interface {
	// DefaultNetwork returns the account's default network.
	DefaultNetwork(ctx context.Context) (*Network, error)

	// GetNetwork returns the network with the given ID or name.
	GetNetwork(ctx context.Context, idOrName string) (*Network, error)

	// CreateNetwork creates (or returns the existing) network with the given
	// name and topology.
	CreateNetwork(ctx context.Context, name string, topology NetworkTopology) (*Network, error)
}

// NetworkProvider resolves the cluster network through a NetworkBackend.
//
// ID selects the behavior: DefaultNetworkMarker looks up the default network,
// any other non-empty value looks up that network, and an empty ID creates a
// new network with Topology (StandardTopology when unset).
type NetworkProvider struct {
	Backend  NetworkBackend
	ID       string
	Topology *NetworkTopology
}

// NewNetworkProvider creates a network provider for the given selection.
func NewNetworkProvider(backend NetworkBackend, id string) *NetworkProvider {
	return &NetworkProvider{Backend: backend, ID: id}
}

// Provide implements ResourceProvider.
func (p *NetworkProvider) Provide(rc *ResourceContext) (any, error) {
	if p.Backend == nil {
		return nil, errors.New("no network backend configured")
	}

	observer := rc.Observer
	if observer == nil {
		observer = NewConsoleObserver()
	}

	var (
		network *Network
		err     error
	)
	switch p.ID {
	case DefaultNetworkMarker:
		observer.Printf("[network] looking up default network")
		network, err = p.Backend.DefaultNetwork(rc)
	case "":
		topology := StandardTopology()
		if p.Topology != nil {
			topology = *p.Topology
		}
		if topology.Labels == nil {
			topology.Labels = rc.Stack.Labels()
		}
		name := naming.Network(rc.Stack.ID)
		observer.Printf("[network] creating network %s (%s)", name, topology.IPRange)
		network, err = p.Backend.CreateNetwork(rc, name, topology)
	default:
		observer.Printf("[network] looking up network %s", p.ID)
		network, err = p.Backend.GetNetwork(rc, p.ID)
	}
	if err != nil {
		return nil, err
	}
	if network == nil {
		return nil, fmt.Errorf("network %q not found", p.ID)
	}
	return network, nil
}

// DirectNetworkProvider hands out a network that already exists, for example
// one shared between blueprints.
type DirectNetworkProvider struct {
	Network *Network
}

// Provide implements ResourceProvider.
func (p *DirectNetworkProvider) Provide(_ *ResourceContext) (any, error) {
	if p.Network == nil {
		return nil, errors.New("direct network provider has no network")
	}
	return p.Network, nil
}
