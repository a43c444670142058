package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/notify"
)

var (
	ErrInvalidCode      = errors.New("invalid verification code")
	ErrTooManyAttempts  = errors.New("too many verification attempts, register again")
	ErrDisplayNameEmpty = errors.New("display name is required")
)

// MaxCodeAttempts bounds wrong codes per pending signup.
const MaxCodeAttempts = 5

// Signup runs the register-then-verify flow: Start holds the account in a
// PendingStore and mails a 6-digit code, Verify creates the user once the
// code matches.
type Signup struct {
	authenticator Authenticator
	pending       PendingStore
	mailer        notify.Mailer
	ttl           time.Duration
	logger        *slog.Logger

	generateCode func() (string, error)
}

// NewSignup creates a signup flow whose codes expire after ttl.
func NewSignup(authenticator Authenticator, pending PendingStore, mailer notify.Mailer, ttl time.Duration, logger *slog.Logger) *Signup {
	if logger == nil {
		logger = slog.Default()
	}
	return &Signup{
		authenticator: authenticator,
		pending:       pending,
		mailer:        mailer,
		ttl:           ttl,
		logger:        logger,
		generateCode:  generateCode,
	}
}

// TTL is how long a pending signup stays valid.
func (s *Signup) TTL() time.Duration {
	return s.ttl
}

// Start validates the registration and sends a verification code.
func (s *Signup) Start(ctx context.Context, email, displayName, password string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return ErrInvalidCredentials
	}
	if displayName == "" {
		return ErrDisplayNameEmpty
	}

	passwordHash, err := s.authenticator.PrepareRegistration(ctx, email, password)
	if err != nil {
		return err
	}

	code, err := s.generateCode()
	if err != nil {
		return err
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash code: %w", err)
	}

	if err := s.pending.Put(ctx, &PendingSignup{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CodeHash:     string(codeHash),
	}, s.ttl); err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, notify.SignupCodeMessage(email, displayName, code, s.ttl.String())); err != nil {
		return fmt.Errorf("failed to send verification code: %w", err)
	}
	s.logger.Info("Signup code sent", "email", email, "expires_in", s.ttl.String())
	return nil
}

// Verify checks code and creates the account.
func (s *Signup) Verify(ctx context.Context, email, code string) (*models.User, error) {
	email = NormalizeEmail(email)
	pending, err := s.pending.Get(ctx, email)
	if err != nil {
		return nil, err
	}

	if pending.Attempts >= MaxCodeAttempts {
		_ = s.pending.Delete(ctx, email)
		return nil, ErrTooManyAttempts
	}
	if err := bcrypt.CompareHashAndPassword([]byte(pending.CodeHash), []byte(code)); err != nil {
		pending.Attempts++
		if err := s.pending.Update(ctx, pending); err != nil && !errors.Is(err, ErrSignupNotFound) {
			s.logger.Warn("Failed to record code attempt", "email", email, "error", err)
		}
		return nil, ErrInvalidCode
	}

	user, err := s.authenticator.CompleteRegistration(ctx, pending.Email, pending.DisplayName, pending.PasswordHash)
	if err != nil {
		return nil, err
	}
	if err := s.pending.Delete(ctx, email); err != nil {
		s.logger.Warn("Failed to delete pending signup", "email", email, "error", err)
	}
	return user, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
