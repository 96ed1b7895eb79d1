package blueprint

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// KubernetesVersion is a Kubernetes minor version such as "1.31".
type KubernetesVersion string

// Supported Kubernetes versions.
const (
	V1_29 KubernetesVersion = "1.29"
	V1_30 KubernetesVersion = "1.30"
	V1_31 KubernetesVersion = "1.31"
	V1_32 KubernetesVersion = "1.32"
)

// DefaultVersion is used when a blueprint does not set a version.
const DefaultVersion = V1_31

// String implements fmt.Stringer.
func (v KubernetesVersion) String() string {
	return string(v)
}

// Semver parses the version.
func (v KubernetesVersion) Semver() (*semver.Version, error) {
	parsed, err := semver.NewVersion(string(v))
	if err != nil {
		return nil, fmt.Errorf("invalid kubernetes version %q: %w", v, err)
	}
	return parsed, nil
}

// Matches reports whether a server version (e.g. "v1.31.4") belongs to the
// same minor release as v.
func (v KubernetesVersion) Matches(serverVersion string) (bool, error) {
	want, err := v.Semver()
	if err != nil {
		return false, err
	}
	got, err := semver.NewVersion(serverVersion)
	if err != nil {
		return false, fmt.Errorf("invalid server version %q: %w", serverVersion, err)
	}
	return want.Major() == got.Major() && want.Minor() == got.Minor(), nil
}
