package config

// DefaultFilename is the blueprint file looked up when none is given.
const DefaultFilename = "blueprint.yaml"

// File is the on-disk representation of a blueprint.
type File struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name,omitempty"`
	Account string `yaml:"account,omitempty"`
	Region  string `yaml:"region,omitempty"`
	Version string `yaml:"version,omitempty"`

	Description string            `yaml:"description,omitempty"`
	Tags        map[string]string `yaml:"tags,omitempty"`

	Network   NetworkSpec    `yaml:"network,omitempty"`
	Cluster   ClusterSpec    `yaml:"cluster"`
	Resources []ResourceSpec `yaml:"resources,omitempty"`
	AddOns    []AddOnSpec    `yaml:"addons,omitempty"`
	Teams     []TeamSpec     `yaml:"teams,omitempty"`
}

// NetworkSpec selects the cluster network.
//
// ID is "default" for the project's default network, the ID or name of an
// existing network, or empty to create a network with the given topology.
type NetworkSpec struct {
	ID             string            `yaml:"id,omitempty"`
	IPRange        string            `yaml:"ipRange,omitempty"`
	Zone           string            `yaml:"zone,omitempty"`
	PublicSubnets  int               `yaml:"publicSubnets,omitempty"`
	PrivateSubnets int               `yaml:"privateSubnets,omitempty"`
	Labels         map[string]string `yaml:"labels,omitempty"`
}

// ClusterSpec describes the cluster to adopt.
type ClusterSpec struct {
	// Kubeconfig is the path of the kubeconfig file. Defaults to the
	// standard loading rules ($KUBECONFIG, ~/.kube/config).
	Kubeconfig string `yaml:"kubeconfig,omitempty"`
	// Context selects a kubeconfig context. Defaults to the current one.
	Context string `yaml:"context,omitempty"`
	// SkipVersionCheck disables the server version check.
	SkipVersionCheck bool `yaml:"skipVersionCheck,omitempty"`
}

// Resource types.
const (
	ResourceBucket   = "bucket"
	ResourcePassword = "password"
)

// MinPasswordLength is the shortest password a password resource may request.
const MinPasswordLength = 12

// ResourceSpec declares a named resource.
type ResourceSpec struct {
	Key  string `yaml:"key"`
	Type string `yaml:"type"`

	// Bucket settings.
	Bucket   string `yaml:"bucket,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
	Region   string `yaml:"region,omitempty"`

	// Length of a generated password. Zero uses the default length.
	Length int `yaml:"length,omitempty"`
}

// Add-on types.
const (
	AddOnManifest = "manifest"
	AddOnHelm     = "helm"
	AddOnSecret   = "secret"
)

// AddOnSpec declares an add-on.
type AddOnSpec struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Namespace string `yaml:"namespace,omitempty"`

	// Manifests are files or directories of YAML manifests (type manifest).
	Manifests []string `yaml:"manifests,omitempty"`

	// Chart is the path of a chart directory or archive (type helm).
	Chart       string         `yaml:"chart,omitempty"`
	Values      map[string]any `yaml:"values,omitempty"`
	ValuesFiles []string       `yaml:"valuesFiles,omitempty"`

	// Wait makes completion wait for workloads to become ready.
	Wait bool `yaml:"wait,omitempty"`

	// TeamAccess grants every team view access to the add-on namespace once
	// all add-ons are deployed (type helm).
	TeamAccess bool `yaml:"teamAccess,omitempty"`

	// Secret settings (type secret).
	SecretName string `yaml:"secretName,omitempty"`
	// PasswordResource names a password resource holding the password. When
	// empty a password is generated for this secret alone.
	PasswordResource string `yaml:"passwordResource,omitempty"`
}

// Team types.
const (
	TeamPlatform    = "platform"
	TeamApplication = "application"
)

// TeamSpec declares a team.
type TeamSpec struct {
	Name      string     `yaml:"name"`
	Type      string     `yaml:"type"`
	Namespace string     `yaml:"namespace,omitempty"`
	Users     []string   `yaml:"users,omitempty"`
	Quota     *QuotaSpec `yaml:"quota,omitempty"`
}

// QuotaSpec limits the resources of an application team namespace.
type QuotaSpec struct {
	CPU    string `yaml:"cpu,omitempty"`
	Memory string `yaml:"memory,omitempty"`
	Pods   string `yaml:"pods,omitempty"`
}
