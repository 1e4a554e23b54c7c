package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/langx-app/server/internal/models"
	"github.com/langx-app/server/internal/session"
)

type AuthService struct {
	authRepo    models.AuthRepo
	profileRepo models.ProfileRepo
	sessions    *session.Manager
	logger      *slog.Logger
}

func NewAuthService(authRepo models.AuthRepo, profileRepo models.ProfileRepo, sessions *session.Manager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authRepo:    authRepo,
		profileRepo: profileRepo,
		sessions:    sessions,
		logger:      logger,
	}
}

func (as *AuthService) SignUp(ctx context.Context, email, password string) (interface{}, error) {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("invalid email format: %v", err)
	}
	if err := models.Validate.Var(password, "required,min=8"); err != nil {
		return nil, fmt.Errorf("invalid password format: %v", err)
	}
	return as.authRepo.SignUp(ctx, email, password)
}

func (as *AuthService) SignIn(ctx context.Context, email, password string) (interface{}, error) {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("invalid email format: %v", err)
	}
	if err := models.Validate.Var(password, "required"); err != nil {
		return nil, fmt.Errorf("password is required")
	}

	response, err := as.authRepo.SignIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %v", err)
	}
	return response, nil
}

func (as *AuthService) RefreshToken(ctx context.Context, refreshToken string) (interface{}, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}
	response, err := as.authRepo.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %v", err)
	}
	return response, nil
}

// BindSession moves the user's session out of the initializing state after a
// successful auth event. Whether setup is complete depends on whether the
// profile record already exists.
func (as *AuthService) BindSession(ctx context.Context, userID string) (*session.Session, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	exists, err := as.profileRepo.ProfileExists(ctx, userID)
	if err != nil {
		// Treat a failed lookup as setup-incomplete rather than blocking
		// sign-in; the state corrects itself on the next auth event.
		as.logger.Warn("profile existence check failed", "user_id", userID, "error", err)
		exists = false
	}

	sess := as.sessions.Get(userID)
	switch sess.State() {
	case session.StateInitializing:
		sess.Restore(userID, exists)
	default:
		sess.SignIn(userID, exists)
	}
	return sess, nil
}

// SignOut clears the session from any state.
func (as *AuthService) SignOut(userID string) {
	if userID == "" {
		return
	}
	as.sessions.Get(userID).SignOut()
}

// Session returns the session for the given user id.
func (as *AuthService) Session(userID string) *session.Session {
	return as.sessions.Get(userID)
}
