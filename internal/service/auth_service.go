package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/auth"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/storage"
	pb "github.com/mmynk/settleup/pkg/apiv1"
	"github.com/mmynk/settleup/pkg/apiv1/apiv1connect"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	apiv1connect.UnimplementedAuthServiceHandler
	authenticator auth.Authenticator
	signup        *auth.Signup
	jwtManager    *auth.JWTManager
	users         storage.UserStore
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, signup *auth.Signup, jwtManager *auth.JWTManager, users storage.UserStore, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		authenticator: authenticator,
		signup:        signup,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

// Register starts a signup and mails a verification code. No account exists
// until VerifySignup succeeds.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[pb.RegisterRequest]) (*connect.Response[pb.RegisterResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	if err := s.signup.Start(ctx, req.Msg.Email, req.Msg.DisplayName, req.Msg.Password); err != nil {
		s.logger.Warn("Registration failed", "email", req.Msg.Email, "error", err)
		return nil, s.authError("Register", err)
	}

	return connect.NewResponse(&pb.RegisterResponse{
		Email:            auth.NormalizeEmail(req.Msg.Email),
		ExpiresInSeconds: int64(s.signup.TTL().Seconds()),
	}), nil
}

// VerifySignup creates the account and returns a token.
func (s *AuthService) VerifySignup(ctx context.Context, req *connect.Request[pb.VerifySignupRequest]) (*connect.Response[pb.VerifySignupResponse], error) {
	s.logger.Info("VerifySignup request", "email", req.Msg.Email)

	user, err := s.signup.Verify(ctx, req.Msg.Email, req.Msg.Code)
	if err != nil {
		s.logger.Warn("Signup verification failed", "email", req.Msg.Email, "error", err)
		return nil, s.authError("VerifySignup", err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&pb.VerifySignupResponse{User: toProtoUser(user), Token: token}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[pb.LoginRequest]) (*connect.Response[pb.LoginResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&pb.LoginResponse{User: toProtoUser(user), Token: token}), nil
}

// GetCurrentUser returns the currently authenticated user's information.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[pb.GetCurrentUserRequest]) (*connect.Response[pb.GetCurrentUserResponse], error) {
	// Get user ID from context (set by auth middleware)
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load user", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}
	if user == nil {
		// Token outlived its account.
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
	}
	return connect.NewResponse(&pb.GetCurrentUserResponse{User: toProtoUser(user)}), nil
}

func (s *AuthService) authError(op string, err error) error {
	switch {
	case errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrDisplayNameEmpty),
		errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrSignupNotFound),
		errors.Is(err, auth.ErrInvalidCode),
		errors.Is(err, auth.ErrTooManyAttempts):
		return connect.NewError(connect.CodeUnauthenticated, err)
	}
	s.logger.Error(op+" failed", "error", err)
	return connect.NewError(connect.CodeInternal, errors.New("internal error"))
}
