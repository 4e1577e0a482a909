package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicware/clinic-backoffice/internal/core/domain"
	"github.com/clinicware/clinic-backoffice/internal/core/ports"
)

const defaultResetTokenTTL = 30 * time.Minute

// dummyHash is compared against when the username does not exist, so a login
// for an unknown user costs the same as one with a wrong password.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService implements registration, login and the password-reset flow.
type AuthService struct {
	users        ports.UserDirectory
	hasher       ports.PasswordHasher
	tokens       ports.TokenService
	mailer       ports.MailDispatcher
	limiter      ports.LoginLimiter
	resetTTL     time.Duration
	resetBaseURL string
	log          zerolog.Logger
	now          func() time.Time
}

// AuthServiceOptions carries the collaborators and tunables for AuthService.
// Mailer and Limiter are optional; the reset flow requires a Mailer.
type AuthServiceOptions struct {
	Users        ports.UserDirectory
	Hasher       ports.PasswordHasher
	Tokens       ports.TokenService
	Mailer       ports.MailDispatcher
	Limiter      ports.LoginLimiter
	ResetTTL     time.Duration
	ResetBaseURL string
	Logger       zerolog.Logger
}

func NewAuthService(opts AuthServiceOptions) *AuthService {
	resetTTL := opts.ResetTTL
	if resetTTL <= 0 {
		resetTTL = defaultResetTokenTTL
	}
	return &AuthService{
		users:        opts.Users,
		hasher:       opts.Hasher,
		tokens:       opts.Tokens,
		mailer:       opts.Mailer,
		limiter:      opts.Limiter,
		resetTTL:     resetTTL,
		resetBaseURL: opts.ResetBaseURL,
		log:          opts.Logger,
		now:          time.Now,
	}
}

// Register creates a new account with a hashed credential. The role must be
// one of the two recognised values; duplicate usernames and emails are
// rejected before hashing.
func (s *AuthService) Register(ctx context.Context, username, email, password, role string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	parsed, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, domain.ErrUserExists
	}
	if email != "" {
		if _, err := s.users.FindByEmail(ctx, email); err == nil {
			return nil, domain.ErrUserExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("check email: %w", err)
		}
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         parsed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.users.Create(ctx, user)
}

// Login verifies the credential pair and issues a token on success. Unknown
// usernames and wrong passwords are deliberately indistinguishable in both
// the error returned and the time taken.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if !s.allowAttempt(ctx, username) {
		return "", nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(password, dummyHash)
			s.recordFailure(ctx, username)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.recordFailure(ctx, username)
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	// Best effort: a failed timestamp write must not fail the login.
	if err := s.users.RecordLogin(ctx, username, s.now().UTC()); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("record login timestamp failed")
	}
	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("reset login limiter failed")
		}
	}

	return token, user, nil
}

// RequestPasswordReset generates a single-use reset token, stores it on the
// user record and mails the reset link. Unlike login, an unknown email is
// reported to the caller.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrEmailNotFound
		}
		return fmt.Errorf("find user by email: %w", err)
	}

	token := uuid.NewString()
	if err := s.users.SetResetToken(ctx, user.Username, token, s.now().UTC()); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	link := s.resetBaseURL + "/reset-password/" + token
	body := "To reset your password, click the link below:\n" + link
	if err := s.mailer.Send(ctx, user.Email, "Password Reset Request", body); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}

	s.log.Info().Str("username", user.Username).Msg("password reset email sent")
	return nil
}

// ResetPassword consumes a reset token exactly once: the new credential is
// hashed and stored, and the token is cleared in the same update. Expired
// tokens surface as the same error as unknown ones.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return domain.ErrInvalidResetToken
	}

	user, err := s.users.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidResetToken
		}
		return fmt.Errorf("find user by reset token: %w", err)
	}

	if user.ResetRequestedAt == nil || s.now().Sub(*user.ResetRequestedAt) > s.resetTTL {
		return domain.ErrInvalidResetToken
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.SetPassword(ctx, user.Username, hash); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	return nil
}

// ChangePassword re-hashes and stores a new credential for an existing user.
// Used by the owner-tier account update endpoint.
func (s *AuthService) ChangePassword(ctx context.Context, username, newPassword string) error {
	if newPassword == "" {
		return domain.ErrInvalidCredentials
	}
	if _, err := s.users.FindByUsername(ctx, username); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.SetPassword(ctx, username, hash)
}

func (s *AuthService) allowAttempt(ctx context.Context, username string) bool {
	if s.limiter == nil {
		return true
	}
	allowed, err := s.limiter.Allow(ctx, username)
	if err != nil {
		// Fail open: a limiter outage must not lock out logins.
		s.log.Warn().Err(err).Msg("login limiter unavailable")
		return true
	}
	return allowed
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Msg("record login failure")
	}
}

var _ ports.AuthService = (*AuthService)(nil)
