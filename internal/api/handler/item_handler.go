package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicware/clinic-backoffice/internal/core/domain"
	"github.com/clinicware/clinic-backoffice/internal/core/ports"
)

// ItemHandler handles inventory. Listing is shared between roles; mutations
// go through the owner-only /inventory tier.
type ItemHandler struct {
	service ports.ItemService
}

func NewItemHandler(service ports.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

type itemRequest struct {
	Name     string  `json:"name" validate:"required"`
	Quantity int     `json:"quantity" validate:"gte=0"`
	Price    float64 `json:"price" validate:"gte=0"`
	BranchID string  `json:"branch_id"`
}

func (h *ItemHandler) Create(c echo.Context) error {
	var req itemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.service.Create(c.Request().Context(), &domain.Item{
		Name:     req.Name,
		Quantity: req.Quantity,
		Price:    req.Price,
		BranchID: req.BranchID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) Update(c echo.Context) error {
	var req itemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.service.Update(c.Request().Context(), &domain.Item{
		ID:       c.Param("id"),
		Name:     req.Name,
		Quantity: req.Quantity,
		Price:    req.Price,
		BranchID: req.BranchID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
