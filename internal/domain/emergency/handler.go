package emergency

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/edops/edops/internal/domain/bed"
	"github.com/edops/edops/internal/domain/clinical"
	"github.com/edops/edops/internal/platform/auth"
	"github.com/edops/edops/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "physician", "nurse"))

	g.POST("/emergency-cases", h.CreateCase)
	g.GET("/emergency-cases", h.ListCases)
	g.GET("/emergency-cases/critical", h.CriticalCases)
	g.GET("/emergency-cases/:id", h.GetCase)
	g.PATCH("/emergency-cases/:id", h.UpdateCase)
	g.POST("/emergency-cases/:id/transfer", h.TransferPatient)
	g.POST("/emergency-cases/:id/discharge", h.DischargeCase)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, bed.ErrNotFound),
		errors.Is(err, clinical.ErrCaseNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyDischarged),
		errors.Is(err, bed.ErrOccupied),
		errors.Is(err, bed.ErrNotAvailable):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}

type createCaseRequest struct {
	PatientID      *uuid.UUID           `json:"patientId"`
	TriageLevel    int                  `json:"triageLevel"`
	ChiefComplaint string               `json:"chiefComplaint"`
	Diagnosis      *string              `json:"diagnosis"`
	Notes          *string              `json:"notes"`
	BedID          *uuid.UUID           `json:"bedId"`
	DoctorID       *uuid.UUID           `json:"doctorId"`
	VitalSigns     *clinical.VitalSigns `json:"vitalSigns"`
}

func (h *Handler) CreateCase(c echo.Context) error {
	var req createCaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.svc.CreateCase(c.Request().Context(), CreateCaseInput{
		PatientID:      req.PatientID,
		TriageLevel:    req.TriageLevel,
		ChiefComplaint: req.ChiefComplaint,
		Diagnosis:      req.Diagnosis,
		Notes:          req.Notes,
		BedID:          req.BedID,
		DoctorID:       req.DoctorID,
		VitalSigns:     req.VitalSigns,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetCase(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	found, err := h.svc.GetCase(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, found)
}

func (h *Handler) ListCases(c echo.Context) error {
	pg := pagination.FromContext(c)
	status := Status(c.QueryParam("status"))
	items, total, err := h.svc.ListCases(c.Request().Context(), status, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type updateCaseRequest struct {
	TriageLevel    *int                 `json:"triageLevel"`
	ChiefComplaint *string              `json:"chiefComplaint"`
	Diagnosis      *string              `json:"diagnosis"`
	Notes          *string              `json:"notes"`
	DoctorID       *uuid.UUID           `json:"doctorId"`
	BedID          *uuid.UUID           `json:"bedId"`
	VitalSigns     *clinical.VitalSigns `json:"vitalSigns"`
}

func (h *Handler) UpdateCase(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req updateCaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	updated, err := h.svc.UpdateCase(c.Request().Context(), id, UpdateCaseInput{
		TriageLevel:    req.TriageLevel,
		ChiefComplaint: req.ChiefComplaint,
		Diagnosis:      req.Diagnosis,
		Notes:          req.Notes,
		DoctorID:       req.DoctorID,
		BedID:          req.BedID,
		VitalSigns:     req.VitalSigns,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

type transferRequest struct {
	TargetWard  string     `json:"targetWard"`
	TargetBedID *uuid.UUID `json:"targetBedId"`
	Notes       *string    `json:"notes"`
}

func (h *Handler) TransferPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req transferRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	transferred, err := h.svc.TransferPatient(c.Request().Context(), id, req.TargetWard, req.TargetBedID, req.Notes)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transferred)
}

func (h *Handler) DischargeCase(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	discharged, err := h.svc.DischargeCase(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, discharged)
}

func (h *Handler) CriticalCases(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, err := h.svc.CriticalCases(c.Request().Context(), pg.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}
