package addons

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/imamik/blueprints/internal/resources"
	"github.com/imamik/blueprints/internal/util/keygen"
	"github.com/imamik/blueprints/pkg/blueprint"
)

// Keys of the generated secret.
const (
	SecretPasswordKey = "password"
	SecretHashKey     = "passwordHash"
)

// SecretAddOn writes an admin credential secret holding a password and its
// bcrypt hash.
type SecretAddOn struct {
	AddOnName  string
	Namespace  string
	SecretName string

	// PasswordResource names a resources.Password in the registry. When
	// empty a password is generated for this secret alone.
	PasswordResource string
}

var _ blueprint.AddOn = (*SecretAddOn)(nil)

// Name implements blueprint.AddOn.
func (a *SecretAddOn) Name() string {
	return a.AddOnName
}

// Deploy implements blueprint.AddOn.
func (a *SecretAddOn) Deploy(ctx context.Context, info *blueprint.ClusterInfo) (blueprint.Pending, error) {
	password, err := a.password(info)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.AddOnName, err)
	}

	kc, err := clientFor(info)
	if err != nil {
		return nil, err
	}

	objLabels := labelsFor(info, a.AddOnName).Build()
	if err := kc.EnsureNamespace(ctx, a.Namespace, objLabels); err != nil {
		return nil, err
	}
	err = kc.CreateSecret(ctx, &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      a.SecretName,
			Namespace: a.Namespace,
			Labels:    objLabels,
		},
		Type: corev1.SecretTypeOpaque,
		Data: map[string][]byte{
			SecretPasswordKey: []byte(password.Plain),
			SecretHashKey:     []byte(password.Hash),
		},
	})
	if err != nil {
		return nil, err
	}
	return nil, nil
}

func (a *SecretAddOn) password(info *blueprint.ClusterInfo) (*resources.Password, error) {
	if a.PasswordResource != "" {
		v, err := info.Resource(a.PasswordResource)
		if err != nil {
			return nil, err
		}
		password, ok := v.(*resources.Password)
		if !ok {
			return nil, fmt.Errorf("resource %q is %T, not a password", a.PasswordResource, v)
		}
		return password, nil
	}

	plain, err := keygen.GeneratePassword(keygen.DefaultPasswordLength)
	if err != nil {
		return nil, err
	}
	hash, err := keygen.HashPassword(plain)
	if err != nil {
		return nil, err
	}
	return &resources.Password{Plain: plain, Hash: hash}, nil
}
