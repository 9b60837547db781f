package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-ticketing/internal/auth"
	"github.com/spec-kit/event-ticketing/internal/config"
	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/repository"
	apperrors "github.com/spec-kit/event-ticketing/pkg/util/errorutil"
)

const minPasswordLength = 8

// AuthService coordinates registration, login and profile flows.
type AuthService struct {
	users      repository.UserRepository
	resets     repository.PasswordResetRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	resetTTL   time.Duration
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo          repository.UserRepository
	PasswordResetRepo repository.PasswordResetRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		resets:     deps.PasswordResetRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// RegisterInput describes a registration payload.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     domain.UserRole
}

// Register creates a new account. Validation failures are reported
// per-field; the role defaults to attendee and is fixed from here on.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, time.Time, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if input.Role == "" {
		input.Role = domain.UserRoleAttendee
	}

	fields := map[string]any{}
	if input.Username == "" {
		fields["username"] = "username is required"
	}
	if input.Email == "" {
		fields["email"] = "email is required"
	}
	if len(input.Password) < minPasswordLength {
		fields["password"] = "password must be at least 8 characters"
	}
	if !domain.ValidRole(input.Role) {
		fields["role"] = "role must be organizer or attendee"
	}

	if input.Username != "" {
		if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
			fields["username"] = "username already taken"
		} else if err != pgx.ErrNoRows {
			return nil, "", time.Time{}, err
		}
	}
	if input.Email != "" {
		if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
			fields["email"] = "email already registered"
		} else if err != pgx.ErrNoRows {
			return nil, "", time.Time{}, err
		}
	}
	if len(fields) > 0 {
		return nil, "", time.Time{}, apperrors.NewValidationError("registration failed", fields)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		Role:         input.Role,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Login authenticates by username and password.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Logout currently no-ops for stateless JWT approach.
func (s *AuthService) Logout(_ context.Context, _ string) error {
	return nil
}

// ProfileUpdateInput carries optional profile mutations. Role appears here
// only so that an attempted change can be rejected explicitly.
type ProfileUpdateInput struct {
	Username *string
	Email    *string
	Password *string
	Role     *domain.UserRole
}

// UpdateProfile applies profile changes for the given user. The role is
// immutable after registration; any payload trying to change it fails.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input ProfileUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}

	if input.Role != nil && *input.Role != user.Role {
		return nil, apperrors.NewValidationError("role is immutable", map[string]any{
			"role": "role cannot be changed after registration",
		})
	}

	if input.Username != nil && strings.TrimSpace(*input.Username) != "" {
		candidate := strings.TrimSpace(*input.Username)
		if candidate != user.Username {
			if _, err := s.users.GetByUsername(ctx, candidate); err == nil {
				return nil, apperrors.NewValidationError("profile update failed", map[string]any{
					"username": "username already taken",
				})
			} else if err != pgx.ErrNoRows {
				return nil, err
			}
			user.Username = candidate
		}
	}
	if input.Email != nil && strings.TrimSpace(*input.Email) != "" {
		candidate := strings.TrimSpace(*input.Email)
		if candidate != user.Email {
			if _, err := s.users.GetByEmail(ctx, candidate); err == nil {
				return nil, apperrors.NewValidationError("profile update failed", map[string]any{
					"email": "email already registered",
				})
			} else if err != pgx.ErrNoRows {
				return nil, err
			}
			user.Email = candidate
		}
	}
	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return nil, apperrors.NewValidationError("profile update failed", map[string]any{
				"password": "password must be at least 8 characters",
			})
		}
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser fetches a user by id.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

// RequestPasswordReset persists a reset token for the given email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*repository.PasswordResetToken, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}

	token := &repository.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// ConfirmPasswordReset validates the reset token and updates the password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("reset token", nil)
		}
		return err
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return apperrors.NewValidationError("token expired or used", nil)
	}
	if len(newPassword) < minPasswordLength {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	return s.resets.MarkUsed(ctx, token.ID)
}
