package auth

import (
	"context"

	"github.com/mmynk/settleup/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// Registration is split in two so that an account is only created once the
// e-mail address has been confirmed.
type Authenticator interface {
	// PrepareRegistration checks that the email is unused and the credential
	// acceptable, and returns the hashed credential to keep until the signup
	// is verified.
	PrepareRegistration(ctx context.Context, email, credential string) (string, error)

	// CompleteRegistration creates the user from a prepared credential hash.
	CompleteRegistration(ctx context.Context, email, displayName, credentialHash string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
