package blueprint_test

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/blueprints/pkg/blueprint"
)

type exampleAddOn struct{ name string }

func (a exampleAddOn) Name() string { return a.name }

func (a exampleAddOn) Deploy(context.Context, *blueprint.ClusterInfo) (blueprint.Pending, error) {
	fmt.Println("deploy", a.name)
	return nil, nil
}

type exampleTeam struct{ name string }

func (t exampleTeam) Name() string { return t.name }

func (t exampleTeam) Setup(context.Context, *blueprint.ClusterInfo) error {
	fmt.Println("setup team", t.name)
	return nil
}

func Example() {
	cluster := blueprint.ClusterProviderFunc(func(_ context.Context, stack *blueprint.Stack, network *blueprint.Network, version blueprint.KubernetesVersion) (*blueprint.ClusterInfo, error) {
		fmt.Printf("create cluster %s %s in %s\n", stack.Name, version, network.Name)
		return blueprint.NewClusterInfo(blueprint.Cluster{Name: stack.Name, Version: version}, network, nil, nil), nil
	})

	base := blueprint.NewBuilder().
		ClusterProvider(cluster).
		ResourceProvider(blueprint.NetworkResource, &blueprint.DirectNetworkProvider{
			Network: &blueprint.Network{Name: "shared"},
		}).
		AddOns(exampleAddOn{"logging"})

	bp, err := base.Clone(blueprint.CloneRegion("nbg1")).
		AddOns(exampleAddOn{"gitops"}).
		Teams(exampleTeam{"platform"}).
		Build(blueprint.NewApp(), "east-test-1",
			blueprint.WithObserver(blueprint.NewLogrObserver(logr.Discard())),
			blueprint.WithMetrics(false))
	if err != nil {
		fmt.Println(err)
		return
	}

	result, err := bp.Deploy(context.Background())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(result.State)

	// Output:
	// create cluster east-test-1 1.31 in shared
	// deploy logging
	// deploy gitops
	// setup team platform
	// Complete
}
