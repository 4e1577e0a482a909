package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinicware/clinic-backoffice/internal/api/handler"
	"github.com/clinicware/clinic-backoffice/internal/api/middleware"
	"github.com/clinicware/clinic-backoffice/internal/core/domain"
	"github.com/clinicware/clinic-backoffice/internal/core/ports"
	"github.com/clinicware/clinic-backoffice/internal/core/service"
)

// memDirectory is an in-memory UserDirectory for end-to-end handler tests.
type memDirectory struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemDirectory() *memDirectory {
	return &memDirectory{users: make(map[string]*domain.User)}
}

func (d *memDirectory) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[user.Username]; ok {
		return nil, domain.ErrUserExists
	}
	cp := *user
	d.users[user.Username] = &cp
	return &cp, nil
}

func (d *memDirectory) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if u, ok := d.users[username]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

func (d *memDirectory) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (d *memDirectory) FindByResetToken(_ context.Context, token string) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.ResetToken != "" && u.ResetToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (d *memDirectory) ExistsByUsername(_ context.Context, username string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.users[username]
	return ok, nil
}

func (d *memDirectory) List(_ context.Context) ([]domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.User, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, *u)
	}
	return out, nil
}

func (d *memDirectory) Delete(_ context.Context, username string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[username]; !ok {
		return domain.ErrUserNotFound
	}
	delete(d.users, username)
	return nil
}

func (d *memDirectory) SetPassword(_ context.Context, username, passwordHash string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetToken = ""
	u.ResetRequestedAt = nil
	return nil
}

func (d *memDirectory) SetResetToken(_ context.Context, username, token string, at time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ResetToken = token
	u.ResetRequestedAt = &at
	return nil
}

func (d *memDirectory) RecordLogin(_ context.Context, username string, at time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLoginAt = &at
	return nil
}

func (d *memDirectory) Count(_ context.Context) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.users)), nil
}

var _ ports.UserDirectory = (*memDirectory)(nil)

type captureMailer struct {
	mu   sync.Mutex
	body string
}

func (m *captureMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.body = body
	return nil
}

func (m *captureMailer) lastBody() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.body
}

// newTestServer wires the auth core behind real gate and policy middleware,
// backed by the in-memory directory instead of Mongo.
func newTestServer(t *testing.T, mailer ports.MailDispatcher) *echo.Echo {
	t.Helper()

	users := newMemDirectory()
	hasher := service.NewBcryptHasher(4)
	tokens := service.NewTokenService("scenario-secret", time.Hour)
	authService := service.NewAuthService(service.AuthServiceOptions{
		Users:        users,
		Hasher:       hasher,
		Tokens:       tokens,
		Mailer:       mailer,
		ResetTTL:     30 * time.Minute,
		ResetBaseURL: "http://localhost:5173",
		Logger:       zerolog.Nop(),
	})

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(users, authService)

	policy := middleware.NewPolicy(
		middleware.Rule{Prefix: "/employees/me", Roles: []domain.Role{domain.RoleOwner, domain.RoleEmployee}},
		middleware.Rule{Prefix: "/employees", Roles: []domain.Role{domain.RoleOwner}},
		middleware.Rule{Prefix: "/reports", Roles: []domain.Role{domain.RoleOwner}},
	)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())
	e.Use(middleware.Gate(tokens))
	e.Use(policy.Middleware())

	e.POST("/login", authHandler.Login)
	e.POST("/register", authHandler.Register)
	e.POST("/api/forgot-password", authHandler.ForgotPassword)
	e.POST("/api/reset-password", authHandler.ResetPassword)
	e.GET("/employees/me", userHandler.Me)
	e.GET("/employees", userHandler.List)
	e.GET("/reports", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return e
}

func doJSON(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func loginToken(t *testing.T, e *echo.Echo, username, password string) string {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/login", `{"username":"`+username+`","password":"`+password+`"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", username, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("login response: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("login %s: empty token", username)
	}
	return resp.Token
}

func TestRoleTiers_EndToEnd(t *testing.T) {
	e := newTestServer(t, &captureMailer{})

	// Register an employee (legacy role spelling) and an owner.
	rec := doJSON(e, http.MethodPost, "/register",
		`{"username":"alice","email":"alice@example.com","password":"secret1","role":"EMPLOYEE"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register alice: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(e, http.MethodPost, "/register",
		`{"username":"boss","email":"boss@example.com","password":"secret1","role":"owner"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register boss: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	aliceToken := loginToken(t, e, "alice", "secret1")
	bossToken := loginToken(t, e, "boss", "secret1")

	// Any authenticated role reaches the shared tier.
	rec = doJSON(e, http.MethodGet, "/employees/me", "", aliceToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("employee on shared tier: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// The employee is shut out of the owner tier.
	rec = doJSON(e, http.MethodGet, "/reports", "", aliceToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("employee on owner tier: expected 403, got %d", rec.Code)
	}
	rec = doJSON(e, http.MethodGet, "/employees", "", aliceToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("employee on roster: expected 403, got %d", rec.Code)
	}

	// The owner passes both tiers.
	rec = doJSON(e, http.MethodGet, "/reports", "", bossToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner on owner tier: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(e, http.MethodGet, "/employees/me", "", bossToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner on shared tier: expected 200, got %d", rec.Code)
	}

	// No token at all gets a uniform 401 on everything protected.
	rec = doJSON(e, http.MethodGet, "/employees/me", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", rec.Code)
	}
	rec = doJSON(e, http.MethodGet, "/reports", "", "garbage.token.here")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", rec.Code)
	}
}

func TestLoginRejection_EndToEnd(t *testing.T) {
	e := newTestServer(t, &captureMailer{})

	doJSON(e, http.MethodPost, "/register",
		`{"username":"alice","email":"alice@example.com","password":"secret1","role":"employee"}`, "")

	// Unknown user and wrong password must be indistinguishable on the wire.
	unknown := doJSON(e, http.MethodPost, "/login", `{"username":"ghost","password":"secret1"}`, "")
	wrongPw := doJSON(e, http.MethodPost, "/login", `{"username":"alice","password":"nope"}`, "")
	if unknown.Code != http.StatusUnauthorized || wrongPw.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", unknown.Code, wrongPw.Code)
	}
	if unknown.Body.String() != wrongPw.Body.String() {
		t.Fatalf("login rejections differ: %q vs %q", unknown.Body.String(), wrongPw.Body.String())
	}
}

func TestPasswordResetFlow_EndToEnd(t *testing.T) {
	mailer := &captureMailer{}
	e := newTestServer(t, mailer)

	doJSON(e, http.MethodPost, "/register",
		`{"username":"alice","email":"alice@example.com","password":"secret1","role":"employee"}`, "")

	rec := doJSON(e, http.MethodPost, "/api/forgot-password", `{"email":"alice@example.com"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("forgot-password: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Pull the token out of the emailed link.
	body := mailer.lastBody()
	idx := strings.LastIndex(body, "/reset-password/")
	if idx < 0 {
		t.Fatalf("mail body has no reset link: %q", body)
	}
	token := body[idx+len("/reset-password/"):]

	rec = doJSON(e, http.MethodPost, "/api/reset-password",
		`{"token":"`+token+`","newPassword":"changed1"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset-password: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// New credential works, the old one does not, and the token is spent.
	loginToken(t, e, "alice", "changed1")
	rec = doJSON(e, http.MethodPost, "/login", `{"username":"alice","password":"secret1"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("old password: expected 401, got %d", rec.Code)
	}
	rec = doJSON(e, http.MethodPost, "/api/reset-password",
		`{"token":"`+token+`","newPassword":"again12"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("token reuse: expected 400, got %d", rec.Code)
	}

	// An unregistered email is disclosed, per the product behavior.
	rec = doJSON(e, http.MethodPost, "/api/forgot-password", `{"email":"ghost@example.com"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown email: expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "not registered") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
