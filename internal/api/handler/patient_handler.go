package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicware/clinic-backoffice/internal/core/domain"
	"github.com/clinicware/clinic-backoffice/internal/core/ports"
)

// PatientHandler handles patient records. Available to both roles.
type PatientHandler struct {
	service ports.PatientService
}

func NewPatientHandler(service ports.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

type patientRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	BranchID  string `json:"branch_id"`
}

func (r *patientRequest) toDomain(id string) *domain.Patient {
	return &domain.Patient{
		ID:        id,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
		BranchID:  r.BranchID,
	}
}

func (h *PatientHandler) Create(c echo.Context) error {
	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patient, err := h.service.Create(c.Request().Context(), req.toDomain(""))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, patient)
}

// List supports an optional ?search= partial name match.
func (h *PatientHandler) List(c echo.Context) error {
	patients, err := h.service.List(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patients)
}

func (h *PatientHandler) Get(c echo.Context) error {
	patient, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patient)
}

func (h *PatientHandler) Update(c echo.Context) error {
	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patient, err := h.service.Update(c.Request().Context(), req.toDomain(c.Param("id")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patient)
}

func (h *PatientHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
