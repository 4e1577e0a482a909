package ports

import "github.com/clinicware/clinic-backoffice/internal/core/domain"

// TokenService issues and validates stateless bearer tokens. There is no
// server-side session table, so a token cannot be revoked before it expires.
type TokenService interface {
	// Issue returns a signed token carrying the user's identity and role.
	Issue(user *domain.User) (string, error)

	// Validate checks signature and expiry and returns the embedded
	// principal. Failures are one of domain.ErrTokenMalformed,
	// domain.ErrTokenSignatureInvalid or domain.ErrTokenExpired.
	Validate(token string) (*domain.Principal, error)
}
