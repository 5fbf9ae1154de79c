// Package auth identifies the owner of a workspace: password accounts
// hashed with bcrypt and stateless JWT sessions carrying the user ID.
package auth

import (
	"context"

	"github.com/mmynk/khaja/internal/models"
)

// Authenticator resolves the identity that owns a workspace.
// Implementations can be swapped (password, passkeys, OAuth) without
// changing the service layer.
type Authenticator interface {
	// Register creates an account. The credential format depends on the
	// implementation.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user owning the credential.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks a credential before it is accepted.
	ValidateCredential(credential string) error
}

var _ Authenticator = (*PasswordAuthenticator)(nil)
