package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinicware/clinic-backoffice/internal/core/domain"
	"github.com/clinicware/clinic-backoffice/internal/core/service"
)

func issueToken(t *testing.T, secret string, role domain.Role) string {
	t.Helper()
	token, err := service.NewTokenService(secret, time.Hour).Issue(&domain.User{
		ID:       "u-1",
		Username: "alice",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func TestGate_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+issueToken(t, "secret", domain.RoleEmployee))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Gate(service.NewTokenService("secret", time.Hour))
	handler := mw(func(c echo.Context) error {
		called = true
		p := PrincipalFrom(c)
		if p == nil {
			t.Fatalf("principal not attached")
		}
		if p.Username != "alice" || p.Role != domain.RoleEmployee {
			t.Fatalf("unexpected principal: %+v", p)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestGate_PublicRouteSkipped(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Gate(service.NewTokenService("secret", time.Hour))
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("public route blocked by gate")
	}
}

func TestGate_UniformRejection(t *testing.T) {
	expired := service.NewTokenService("secret", -time.Minute)
	expiredToken, err := expired.Issue(&domain.User{Username: "alice", Role: domain.RoleOwner})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Token abc",
		"garbage token":  "Bearer not-a-token",
		"wrong secret":   "Bearer " + issueToken(t, "other-secret", domain.RoleOwner),
		"expired":        "Bearer " + expiredToken,
	}

	// Every failure mode must produce the same response; no hint about which
	// part of the token was wrong.
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/patients", nil)
			if header != "" {
				req.Header.Set(echo.HeaderAuthorization, header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			mw := Gate(service.NewTokenService("secret", time.Hour))
			handler := mw(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			err := handler(c)
			he, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected HTTPError, got %v", err)
			}
			if he.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", he.Code)
			}
			if he.Message != "authentication required" {
				t.Fatalf("leaky rejection message: %v", he.Message)
			}
		})
	}
}
