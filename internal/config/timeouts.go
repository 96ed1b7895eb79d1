package config

import (
	"os"
	"strconv"
	"time"

	"github.com/imamik/blueprints/internal/util/retry"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	NetworkCreate     time.Duration // Timeout for creating a network and its subnets
	Delete            time.Duration // Timeout for all delete operations
	BucketCreate      time.Duration // Timeout for creating an object storage bucket
	AddOnCompletion   time.Duration // Timeout for pending add-on completions
	WorkloadReady     time.Duration // Timeout for an add-on's workloads to become ready
	ReadyPoll         time.Duration // Poll interval while waiting for workloads
	RetryMaxAttempts  int           // Attempts per cloud API call, the first one included
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - BLUEPRINTS_TIMEOUT_NETWORK_CREATE (default: 2m)
//   - BLUEPRINTS_TIMEOUT_DELETE (default: 5m)
//   - BLUEPRINTS_TIMEOUT_BUCKET_CREATE (default: 1m)
//   - BLUEPRINTS_TIMEOUT_ADDON_COMPLETION (default: 15m)
//   - BLUEPRINTS_TIMEOUT_WORKLOAD_READY (default: 10m)
//   - BLUEPRINTS_READY_POLL_INTERVAL (default: 5s)
//   - BLUEPRINTS_RETRY_MAX_ATTEMPTS (default: 5)
//   - BLUEPRINTS_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		NetworkCreate:     parseDuration("BLUEPRINTS_TIMEOUT_NETWORK_CREATE", 2*time.Minute),
		Delete:            parseDuration("BLUEPRINTS_TIMEOUT_DELETE", 5*time.Minute),
		BucketCreate:      parseDuration("BLUEPRINTS_TIMEOUT_BUCKET_CREATE", 1*time.Minute),
		AddOnCompletion:   parseDuration("BLUEPRINTS_TIMEOUT_ADDON_COMPLETION", 15*time.Minute),
		WorkloadReady:     parseDuration("BLUEPRINTS_TIMEOUT_WORKLOAD_READY", 10*time.Minute),
		ReadyPoll:         parseDuration("BLUEPRINTS_READY_POLL_INTERVAL", 5*time.Second),
		RetryMaxAttempts:  parseInt("BLUEPRINTS_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("BLUEPRINTS_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// TestTimeouts returns short timeouts suitable for tests.
func TestTimeouts() *Timeouts {
	return &Timeouts{
		NetworkCreate:     1 * time.Second,
		Delete:            1 * time.Second,
		BucketCreate:      1 * time.Second,
		AddOnCompletion:   2 * time.Second,
		WorkloadReady:     500 * time.Millisecond,
		ReadyPoll:         10 * time.Millisecond,
		RetryMaxAttempts:  2,
		RetryInitialDelay: 10 * time.Millisecond,
	}
}

// RetryPolicy returns the retry policy for cloud API calls.
func (t *Timeouts) RetryPolicy() retry.Policy {
	p := retry.DefaultPolicy()
	p.Attempts = t.RetryMaxAttempts
	p.Delay = t.RetryInitialDelay
	return p
}

// Credentials are secrets read from the environment. They never appear in
// blueprint files.
type Credentials struct {
	HCloudToken string
	S3AccessKey string
	S3SecretKey string
}

// LoadCredentials reads HCLOUD_TOKEN, S3_ACCESS_KEY and S3_SECRET_KEY.
func LoadCredentials() Credentials {
	return Credentials{
		HCloudToken: os.Getenv("HCLOUD_TOKEN"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}
	return i
}
