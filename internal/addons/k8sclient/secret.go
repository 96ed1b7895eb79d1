package k8sclient

import (
	"context"
	"errors"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// EnsureNamespace creates the namespace if it does not exist. Labels of an
// existing namespace are left untouched.
func (k *kubeClient) EnsureNamespace(ctx context.Context, name string, labels map[string]string) error {
	if name == "" {
		return errors.New("namespace name is required")
	}
	ns := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{Name: name, Labels: labels},
	}
	if err := k.c.Create(ctx, ns); err != nil && !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("failed to create namespace %s: %w", name, err)
	}
	return nil
}

// CreateSecret creates or replaces a secret in its namespace.
func (k *kubeClient) CreateSecret(ctx context.Context, secret *corev1.Secret) error {
	if secret.Namespace == "" {
		return errors.New("secret namespace is required")
	}
	if secret.Name == "" {
		return errors.New("secret name is required")
	}

	if err := k.DeleteSecret(ctx, secret.Namespace, secret.Name); err != nil {
		return err
	}

	if err := k.c.Create(ctx, secret); err != nil {
		return fmt.Errorf("failed to create secret %s/%s: %w", secret.Namespace, secret.Name, err)
	}
	return nil
}

// DeleteSecret deletes a secret, returning nil if not found.
func (k *kubeClient) DeleteSecret(ctx context.Context, namespace, name string) error {
	if namespace == "" {
		return errors.New("namespace is required")
	}
	if name == "" {
		return errors.New("secret name is required")
	}

	secret := &corev1.Secret{ObjectMeta: metav1.ObjectMeta{Namespace: namespace, Name: name}}
	if err := k.c.Delete(ctx, secret); client.IgnoreNotFound(err) != nil {
		return fmt.Errorf("failed to delete secret %s/%s: %w", namespace, name, err)
	}
	return nil
}
