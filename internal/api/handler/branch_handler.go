package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicware/clinic-backoffice/internal/core/domain"
	"github.com/clinicware/clinic-backoffice/internal/core/ports"
)

// BranchHandler handles branch management. All routes are owner-only via the
// route policy.
type BranchHandler struct {
	service ports.BranchService
}

func NewBranchHandler(service ports.BranchService) *BranchHandler {
	return &BranchHandler{service: service}
}

type branchRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func (h *BranchHandler) Create(c echo.Context) error {
	var req branchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	branch, err := h.service.Create(c.Request().Context(), req.Name, req.Address, req.Phone)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, branch)
}

func (h *BranchHandler) List(c echo.Context) error {
	branches, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, branches)
}

func (h *BranchHandler) Get(c echo.Context) error {
	branch, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, branch)
}

func (h *BranchHandler) Update(c echo.Context) error {
	var req branchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	branch, err := h.service.Update(c.Request().Context(), &domain.Branch{
		ID:      c.Param("id"),
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, branch)
}

func (h *BranchHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
