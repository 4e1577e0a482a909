package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinicware/clinic-backoffice/internal/core/domain"
)

type stubAuthService struct {
	registerFn       func(ctx context.Context, username, email, password, role string) (*domain.User, error)
	loginFn          func(ctx context.Context, username, password string) (string, *domain.User, error)
	requestResetFn   func(ctx context.Context, email string) error
	resetPasswordFn  func(ctx context.Context, token, newPassword string) error
	changePasswordFn func(ctx context.Context, username, newPassword string) error
}

func (s *stubAuthService) Register(ctx context.Context, username, email, password, role string) (*domain.User, error) {
	return s.registerFn(ctx, username, email, password, role)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return s.requestResetFn(ctx, email)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return s.resetPasswordFn(ctx, token, newPassword)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, username, newPassword string) error {
	return s.changePasswordFn(ctx, username, newPassword)
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.User, error) {
			if username != "alice" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return "tok-123", &domain.User{Username: "alice", Role: domain.RoleEmployee}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/login", `{"username":"alice","password":"secret1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "tok-123" {
		t.Fatalf("token missing from response: %v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["role"] != "employee" {
		t.Fatalf("unexpected user payload: %v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/login", `{"username":"alice","password":"wrong"}`)
	err := h.Login(c)
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
}

func TestAuthHandler_Login_MissingFieldsGetGenericError(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.User, error) {
			t.Fatalf("service must not be called on invalid payload")
			return "", nil, nil
		},
	})

	// An empty password must produce the same error as a wrong one.
	c, _ := newTestContext(t, http.MethodPost, "/login", `{"username":"alice"}`)
	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, email, password, role string) (*domain.User, error) {
			if username != "alice" || role != "employee" {
				t.Fatalf("unexpected args: %s %s", username, role)
			}
			return &domain.User{Username: username, Role: domain.RoleEmployee}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/register",
		`{"username":"alice","email":"a@example.com","password":"secret1","role":"employee"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	if strings.Contains(rec.Body.String(), "secret1") {
		t.Fatalf("response leaks the password: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_ValidationFailure(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(ctx context.Context, username, email, password, role string) (*domain.User, error) {
			t.Fatalf("service must not be called on invalid payload")
			return nil, nil
		},
	})

	c, _ := newTestContext(t, http.MethodPost, "/register", `{"username":"al","password":"x","role":"employee"}`)
	err := h.Register(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_ForgotPassword(t *testing.T) {
	var gotEmail string
	stub := &stubAuthService{
		requestResetFn: func(ctx context.Context, email string) error {
			gotEmail = email
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/forgot-password", `{"email":"a@example.com"}`)
	if err := h.ForgotPassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotEmail != "a@example.com" {
		t.Fatalf("service called with %q", gotEmail)
	}
	if !strings.Contains(rec.Body.String(), "Reset link sent") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_ForgotPassword_UnknownEmail(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		requestResetFn: func(ctx context.Context, email string) error {
			return domain.ErrEmailNotFound
		},
	})

	c, _ := newTestContext(t, http.MethodPost, "/api/forgot-password", `{"email":"ghost@example.com"}`)
	if err := h.ForgotPassword(c); err != domain.ErrEmailNotFound {
		t.Fatalf("expected ErrEmailNotFound to propagate, got %v", err)
	}
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	stub := &stubAuthService{
		resetPasswordFn: func(ctx context.Context, token, newPassword string) error {
			if token != "tok-1" || newPassword != "newpw1" {
				t.Fatalf("unexpected args: %s %s", token, newPassword)
			}
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/reset-password", `{"token":"tok-1","newPassword":"newpw1"}`)
	if err := h.ResetPassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_ResetPassword_InvalidToken(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		resetPasswordFn: func(ctx context.Context, token, newPassword string) error {
			return domain.ErrInvalidResetToken
		},
	})

	c, _ := newTestContext(t, http.MethodPost, "/api/reset-password", `{"token":"used","newPassword":"newpw1"}`)
	if err := h.ResetPassword(c); err != domain.ErrInvalidResetToken {
		t.Fatalf("expected ErrInvalidResetToken to propagate, got %v", err)
	}
}
