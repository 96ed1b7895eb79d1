package k8sclient

import (
	"context"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// ObjectRef identifies an applied object.
type ObjectRef struct {
	GVK       schema.GroupVersionKind
	Namespace string
	Name      string
}

// String returns kind/namespace/name.
func (r ObjectRef) String() string {
	if r.Namespace == "" {
		return r.GVK.Kind + "/" + r.Name
	}
	return r.GVK.Kind + "/" + r.Namespace + "/" + r.Name
}

// Client provides Kubernetes operations for add-on installation.
type Client interface {
	// ApplyManifests creates or updates every object of a multi-document
	// YAML stream. Namespaced objects without a namespace are placed in
	// namespace. labels are added to every object.
	ApplyManifests(ctx context.Context, manifests []byte, namespace string, labels map[string]string) ([]ObjectRef, error)

	// EnsureNamespace creates the namespace if it does not exist.
	EnsureNamespace(ctx context.Context, name string, labels map[string]string) error

	// CreateSecret creates or replaces a secret. An existing secret is
	// deleted and recreated so its data is exactly as specified.
	CreateSecret(ctx context.Context, secret *corev1.Secret) error

	// DeleteSecret deletes a secret, returning nil if not found.
	DeleteSecret(ctx context.Context, namespace, name string) error

	// WaitForWorkloads polls until every Deployment, StatefulSet and
	// DaemonSet among refs is ready or ctx is done.
	WaitForWorkloads(ctx context.Context, refs []ObjectRef, poll time.Duration) error
}

// kubeClient implements Client on top of a controller-runtime client.
type kubeClient struct {
	c client.Client
}

// New wraps a controller-runtime client.
func New(c client.Client) Client {
	return &kubeClient{c: c}
}
