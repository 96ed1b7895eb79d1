package hcloud

import (
	"log"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/blueprints/internal/config"
	"github.com/imamik/blueprints/internal/util/retry"
)

// RealClient implements NetworkManager using the Hetzner Cloud API.
type RealClient struct {
	client   *hcloud.Client
	timeouts *config.Timeouts
}

var _ NetworkManager = (*RealClient)(nil)

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *RealClient) {
		c.timeouts = t
	}
}

// WithHCloudClient sets a custom hcloud client (useful for testing).
func WithHCloudClient(hc *hcloud.Client) ClientOption {
	return func(c *RealClient) {
		c.client = hc
	}
}

// NewRealClient creates a new RealClient with optional configuration.
func NewRealClient(token string, opts ...ClientOption) *RealClient {
	c := &RealClient{
		client: hcloud.NewClient(
			hcloud.WithToken(token),
			hcloud.WithApplication("blueprints", ""),
		),
		timeouts: config.LoadTimeouts(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HCloudClient returns the underlying hcloud.Client for advanced operations.
func (c *RealClient) HCloudClient() *hcloud.Client {
	return c.client
}

// retryPolicy logs each retried attempt of an operation on a named resource.
func (c *RealClient) retryPolicy(verb, resourceType, name string) retry.Policy {
	p := c.timeouts.RetryPolicy()
	p.OnRetry = func(attempt int, err error) {
		log.Printf("[hcloud] %s %s %s: attempt %d failed, retrying: %v", verb, resourceType, name, attempt, err)
	}
	return p
}
