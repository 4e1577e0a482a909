package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clinicware/clinic-backoffice/internal/core/domain"
	"github.com/clinicware/clinic-backoffice/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// TokenService issues and validates HS256-signed bearer tokens. The signing
// secret and TTL are fixed at construction and never mutated, so a single
// instance is safe under unbounded request concurrency.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token carrying the user's username, role and record ID.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := s.now().UTC()
	claims := jwt.MapClaims{
		"sub":  user.Username,
		"uid":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Validate decodes raw, verifies the signature against the process secret and
// checks expiry, then rebuilds the principal from the claims. Expected
// failures come back as typed errors, never as a panic.
func (s *TokenService) Validate(raw string) (*domain.Principal, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, domain.ErrTokenSignatureInvalid
		default:
			return nil, domain.ErrTokenMalformed
		}
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenMalformed
	}

	username, _ := claims["sub"].(string)
	roleStr, _ := claims["role"].(string)
	subjectID, _ := claims["uid"].(string)

	role := domain.Role(roleStr)
	if username == "" || !role.Valid() {
		return nil, domain.ErrTokenMalformed
	}

	return &domain.Principal{SubjectID: subjectID, Username: username, Role: role}, nil
}

var _ ports.TokenService = (*TokenService)(nil)
