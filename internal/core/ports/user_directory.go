package ports

import (
	"context"
	"time"

	"github.com/clinicware/clinic-backoffice/internal/core/domain"
)

// UserDirectory is the externally-owned user-record store. The auth core only
// reads and writes the credential, role, reset and login-timestamp fields;
// record lifecycle and locking discipline belong to the implementation.
type UserDirectory interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByResetToken(ctx context.Context, token string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, username string) error

	// SetPassword stores a new password hash and clears any pending reset
	// token in the same update, enforcing single use of reset tokens.
	SetPassword(ctx context.Context, username, passwordHash string) error

	// SetResetToken associates a one-time reset token and its request time
	// with the user record, replacing any previous token.
	SetResetToken(ctx context.Context, username, token string, at time.Time) error

	// RecordLogin stamps the user's last successful login.
	RecordLogin(ctx context.Context, username string, at time.Time) error

	Count(ctx context.Context) (int64, error)
}
