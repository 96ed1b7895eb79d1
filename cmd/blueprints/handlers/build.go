// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/imamik/blueprints/internal/addons"
	"github.com/imamik/blueprints/internal/cluster"
	"github.com/imamik/blueprints/internal/config"
	hcloudplatform "github.com/imamik/blueprints/internal/platform/hcloud"
	"github.com/imamik/blueprints/internal/platform/s3"
	"github.com/imamik/blueprints/internal/resources"
	"github.com/imamik/blueprints/internal/teams"
	"github.com/imamik/blueprints/pkg/blueprint"
)

// defaultBucketRegion is used when neither the resource nor the blueprint
// names a location.
const defaultBucketRegion = "fsn1"

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads and validates a blueprint file.
	loadConfigFile = config.LoadFile

	// loadCredentials reads API credentials from the environment.
	loadCredentials = config.LoadCredentials

	// loadTimeouts reads timeouts from the environment.
	loadTimeouts = config.LoadTimeouts

	// newNetworkManager creates the Hetzner Cloud network client.
	newNetworkManager = func(token string, timeouts *config.Timeouts) hcloudplatform.NetworkManager {
		return hcloudplatform.NewRealClient(token, hcloudplatform.WithTimeouts(timeouts))
	}

	// newBucketManager creates an Object Storage client.
	newBucketManager = func(endpoint, region, accessKey, secretKey string) (s3.BucketManager, error) {
		return s3.NewClient(endpoint, region, accessKey, secretKey)
	}

	// stdout receives command output.
	stdout io.Writer = os.Stdout
)

// buildOptions tune how a blueprint file becomes a blueprint.
type buildOptions struct {
	// network overrides the network selection of the file.
	network  string
	observer blueprint.Observer
	metrics  bool
}

// buildBlueprint turns a loaded blueprint file into a deployable blueprint.
func buildBlueprint(f *config.File, opts buildOptions) (*blueprint.Blueprint, error) {
	creds := loadCredentials()
	timeouts := loadTimeouts()

	if creds.HCloudToken == "" {
		return nil, errors.New("HCLOUD_TOKEN environment variable is required")
	}
	backend := resources.NewHCloudNetworkBackend(newNetworkManager(creds.HCloudToken, timeouts))

	appOpts := []blueprint.AppOption{blueprint.WithNetworkBackend(backend)}
	if opts.observer != nil {
		appOpts = append(appOpts, blueprint.WithAppObserver(opts.observer))
	}

	b := blueprint.NewBuilder().
		Name(f.Name).
		Account(f.Account).
		Region(f.Region).
		Version(blueprint.KubernetesVersion(f.Version)).
		ClusterProvider(&cluster.KubeconfigProvider{
			Path:             f.Cluster.Kubeconfig,
			Context:          f.Cluster.Context,
			SkipVersionCheck: f.Cluster.SkipVersionCheck,
		})

	// An explicit selection goes through the app context; otherwise the
	// network is created with the file's topology.
	networkID := f.Network.ID
	if opts.network != "" {
		networkID = opts.network
	}
	if networkID != "" {
		appOpts = append(appOpts, blueprint.WithContext(blueprint.ContextNetwork, networkID))
	} else {
		b.ResourceProvider(blueprint.NetworkResource, &blueprint.NetworkProvider{
			Backend: backend,
			Topology: &blueprint.NetworkTopology{
				IPRange:        f.Network.IPRange,
				Zone:           f.Network.Zone,
				PublicSubnets:  f.Network.PublicSubnets,
				PrivateSubnets: f.Network.PrivateSubnets,
				Labels:         f.Network.Labels,
			},
		})
	}

	for _, r := range f.Resources {
		provider, err := resourceProvider(f, r, creds)
		if err != nil {
			return nil, err
		}
		b.ResourceProvider(r.Key, provider)
	}

	for _, spec := range f.AddOns {
		addOn, err := addons.FromSpec(spec, timeouts.ReadyPoll)
		if err != nil {
			return nil, fmt.Errorf("add-on %s: %w", spec.Name, err)
		}
		b.AddOns(addOn)
	}

	for _, spec := range f.Teams {
		team, err := teams.FromSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("team %s: %w", spec.Name, err)
		}
		b.Teams(team)
	}

	return b.Build(blueprint.NewApp(appOpts...), f.ID,
		blueprint.WithCompletionTimeout(timeouts.AddOnCompletion),
		blueprint.WithDescription(f.Description),
		blueprint.WithTags(f.Tags),
		blueprint.WithMetrics(opts.metrics),
	)
}

func resourceProvider(f *config.File, r config.ResourceSpec, creds config.Credentials) (blueprint.ResourceProvider, error) {
	switch r.Type {
	case config.ResourceBucket:
		if creds.S3AccessKey == "" || creds.S3SecretKey == "" {
			return nil, fmt.Errorf("resource %s: S3_ACCESS_KEY and S3_SECRET_KEY environment variables are required", r.Key)
		}
		region := r.Region
		if region == "" {
			region = f.Region
		}
		if region == "" {
			region = defaultBucketRegion
		}
		buckets, err := newBucketManager(r.Endpoint, region, creds.S3AccessKey, creds.S3SecretKey)
		if err != nil {
			return nil, fmt.Errorf("resource %s: %w", r.Key, err)
		}
		return &resources.BucketProvider{
			Buckets:    buckets,
			Key:        r.Key,
			BucketName: r.Bucket,
			Region:     region,
			Endpoint:   r.Endpoint,
		}, nil
	case config.ResourcePassword:
		return &resources.PasswordProvider{Length: r.Length}, nil
	}
	return nil, fmt.Errorf("resource %s: unknown type %q", r.Key, r.Type)
}
