package services

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultBcryptCost = 12
	minPasswordLength = 6
)

// Claims is the JWT payload. The subject is the user id.
type Claims struct {
	Role  models.Role `json:"role"`
	Email string      `json:"email"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService struct {
	users      UserStore
	settings   SettingsProvider
	secret     []byte
	ttl        time.Duration
	bcryptCost int
	now        Clock
	logger     zerolog.Logger
}

type AuthOption func(*AuthService)

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) { s.bcryptCost = cost }
}

func WithClock(now Clock) AuthOption {
	return func(s *AuthService) { s.now = now }
}

func NewAuthService(users UserStore, settings SettingsProvider, secret string, ttl time.Duration, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:      users,
		settings:   settings,
		secret:     []byte(secret),
		ttl:        ttl,
		bcryptCost: defaultBcryptCost,
		now:        time.Now,
		logger:     log.With().Str("service", "auth").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AuthService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", errs.NewInternalError("failed to hash password")
	}
	return string(hashed), nil
}

// Login checks the credentials and issues a token. Repeated failures lock the
// account for the configured lockout duration.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, errs.NewValidationError("email", "Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, errs.NewInvalidCredentialsError()
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, errs.NewInvalidCredentialsError()
	}

	now := s.now()
	if user.IsLocked(now) {
		return nil, errs.NewAccountLockedError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if err := s.recordFailure(ctx, user, now); err != nil {
			return nil, err
		}
		if user.IsLocked(now) {
			return nil, errs.NewAccountLockedError()
		}
		return nil, errs.NewInvalidCredentialsError()
	}

	user.LoginAttempts = 0
	user.LockUntil = nil
	user.LastLogin = &now
	user.UpdatedAt = now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issue(user, now)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("userID", user.ID.String()).Msg("User logged in")
	return &LoginResult{Token: token, User: user}, nil
}

// recordFailure counts a bad password and sets the lock once the limit is hit.
// Setting the lock starts the count over.
func (s *AuthService) recordFailure(ctx context.Context, user *models.User, now time.Time) error {
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return err
	}

	user.LoginAttempts++
	if limit := settings.Security.MaxLoginAttempts; limit > 0 && user.LoginAttempts >= limit {
		until := now.Add(settings.Security.Lockout())
		user.LockUntil = &until
		user.LoginAttempts = 0
		s.logger.Warn().Str("userID", user.ID.String()).Time("lockUntil", until).Msg("Account locked after failed logins")
	}
	user.UpdatedAt = now
	return s.users.Update(ctx, user)
}

func (s *AuthService) issue(user *models.User, now time.Time) (string, error) {
	claims := Claims{
		Role:  user.Role,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errs.NewInternalError("failed to sign token")
	}
	return signed, nil
}

// Verify parses a bearer token and returns its claims.
func (s *AuthService) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, errs.NewMissingTokenError()
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.NewExpiredTokenError()
		}
		return nil, errs.NewInvalidTokenError()
	}
	if _, err := claims.UserID(); err != nil {
		return nil, errs.NewInvalidTokenError()
	}
	return claims, nil
}

func (s *AuthService) Me(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (in *ChangePasswordInput) validate() error {
	return validationErr(validation.ValidateStruct(in,
		validation.Field(&in.CurrentPassword, validation.Required.Error("Current password is required")),
		validation.Field(&in.NewPassword,
			validation.Required.Error("New password is required"),
			validation.RuneLength(minPasswordLength, 0).Error("New password must be at least 6 characters long")),
	))
}

func (s *AuthService) ChangePassword(ctx context.Context, id uuid.UUID, in ChangePasswordInput) error {
	if err := in.validate(); err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return errs.NewValidationError("currentPassword", "Current password is incorrect")
	}

	hashed, err := s.hash(in.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	s.logger.Info().Str("userID", user.ID.String()).Msg("Password changed")
	return nil
}

// EnsureAdmin creates the admin account when no user holds email.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errs.IsNotFound(err) {
		return err
	}

	hashed, err := s.hash(password)
	if err != nil {
		return err
	}
	now := s.now()
	admin := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Add(ctx, admin); err != nil && !errs.IsAlreadyExists(err) {
		return err
	}
	s.logger.Info().Str("email", email).Msg("Seeded admin account")
	return nil
}
