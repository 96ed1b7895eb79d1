package cluster

import (
	"context"
	"errors"
	"fmt"

	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/discovery"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/imamik/blueprints/pkg/blueprint"
)

// Scheme knows the built-in Kubernetes types used by add-ons and teams.
var Scheme = runtime.NewScheme()

func init() {
	if err := clientgoscheme.AddToScheme(Scheme); err != nil {
		panic(fmt.Sprintf("failed to build scheme: %v", err))
	}
}

// Factory functions for dependency injection in tests.
var (
	newDiscoveryClient = func(cfg *rest.Config) (discovery.ServerVersionInterface, error) {
		return discovery.NewDiscoveryClientForConfig(cfg)
	}

	newClient = func(cfg *rest.Config) (client.Client, error) {
		return client.New(cfg, client.Options{Scheme: Scheme})
	}
)

// KubeconfigProvider adopts an existing cluster described by a kubeconfig.
type KubeconfigProvider struct {
	// Path is the kubeconfig file. Empty uses the default loading rules
	// (KUBECONFIG, then ~/.kube/config).
	Path string

	// Context overrides the kubeconfig's current context.
	Context string

	// SkipVersionCheck disables the server version check.
	SkipVersionCheck bool
}

var _ blueprint.ClusterProvider = (*KubeconfigProvider)(nil)

// CreateCluster implements blueprint.ClusterProvider.
func (p *KubeconfigProvider) CreateCluster(ctx context.Context, stack *blueprint.Stack, network *blueprint.Network, version blueprint.KubernetesVersion) (*blueprint.ClusterInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if p.Path != "" {
		rules = &clientcmd.ClientConfigLoadingRules{ExplicitPath: p.Path}
	}
	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules,
		&clientcmd.ConfigOverrides{CurrentContext: p.Context})

	raw, err := clientConfig.RawConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	if p.Context != "" {
		raw.CurrentContext = p.Context
	}
	kubeconfig, err := minify(raw)
	if err != nil {
		return nil, err
	}

	restConfig, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build REST config: %w", err)
	}

	if !p.SkipVersionCheck {
		if err := checkServerVersion(restConfig, version); err != nil {
			return nil, err
		}
	}

	c, err := newClient(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create cluster client: %w", err)
	}

	info := blueprint.NewClusterInfo(blueprint.Cluster{
		Name:     stack.Name,
		Version:  version,
		Endpoint: restConfig.Host,
	}, network, c, kubeconfig)
	info.Stack = stack
	return info, nil
}

func checkServerVersion(restConfig *rest.Config, version blueprint.KubernetesVersion) error {
	dc, err := newDiscoveryClient(restConfig)
	if err != nil {
		return fmt.Errorf("failed to create discovery client: %w", err)
	}
	info, err := dc.ServerVersion()
	if err != nil {
		return fmt.Errorf("failed to get server version: %w", err)
	}
	ok, err := version.Matches(info.GitVersion)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("cluster runs kubernetes %s, blueprint requires %s", info.GitVersion, version)
	}
	return nil
}

// minify reduces a kubeconfig to its current context and serializes it.
func minify(raw clientcmdapi.Config) ([]byte, error) {
	if raw.CurrentContext == "" {
		return nil, errors.New("kubeconfig has no current context")
	}
	cfg := raw.DeepCopy()
	if err := clientcmdapi.MinifyConfig(cfg); err != nil {
		return nil, fmt.Errorf("failed to minify kubeconfig: %w", err)
	}
	data, err := clientcmd.Write(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize kubeconfig: %w", err)
	}
	return data, nil
}
