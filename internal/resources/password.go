package resources

import (
	"github.com/imamik/blueprints/internal/util/keygen"
	"github.com/imamik/blueprints/pkg/blueprint"
)

// Password is a generated secret shared by every consumer of its key within
// one deployment.
type Password struct {
	Plain string
	Hash  string
}

// PasswordProvider generates a password and its bcrypt hash.
type PasswordProvider struct {
	// Length defaults to keygen.DefaultPasswordLength.
	Length int
}

var _ blueprint.ResourceProvider = (*PasswordProvider)(nil)

// Provide implements blueprint.ResourceProvider.
func (p *PasswordProvider) Provide(_ *blueprint.ResourceContext) (any, error) {
	plain, err := keygen.GeneratePassword(p.Length)
	if err != nil {
		return nil, err
	}
	hash, err := keygen.HashPassword(plain)
	if err != nil {
		return nil, err
	}
	return &Password{Plain: plain, Hash: hash}, nil
}
