package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicware/clinic-backoffice/internal/core/ports"
)

// UserHandler exposes the employee roster and account management. Listing,
// updating and deleting accounts sit in the owner-only tier; /employees/me is
// available to both roles.
type UserHandler struct {
	users       ports.UserDirectory
	authService ports.AuthService
}

func NewUserHandler(users ports.UserDirectory, authService ports.AuthService) *UserHandler {
	return &UserHandler{users: users, authService: authService}
}

type changePasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// Me returns the record of the authenticated principal.
func (h *UserHandler) Me(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	user, err := h.users.FindByUsername(c.Request().Context(), principal.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// List returns the employee roster.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get returns a single account by username.
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.users.FindByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword re-hashes and stores a new credential for the given account.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), c.Param("username"), req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password updated."})
}

// Delete removes an account by username.
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.users.Delete(c.Request().Context(), c.Param("username")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
