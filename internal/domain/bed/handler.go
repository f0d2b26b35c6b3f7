package bed

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

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
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	readGroup.GET("/beds", h.ListBeds)
	readGroup.GET("/beds/:id", h.GetBed)
	readGroup.GET("/beds/:id/activity", h.GetActivity)

	writeGroup := api.Group("", auth.RequireRole("admin", "nurse"))
	writeGroup.POST("/beds", h.CreateBed)
	writeGroup.PATCH("/beds/:id/status", h.UpdateStatus)
	writeGroup.POST("/beds/:id/assign", h.AssignPatient)
	writeGroup.POST("/beds/:id/release", h.ReleaseBed)
}

// httpError maps domain sentinels onto HTTP statuses.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateNumber),
		errors.Is(err, ErrOccupied),
		errors.Is(err, ErrNotAvailable):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}

type createBedRequest struct {
	Number string `json:"number"`
	Ward   string `json:"ward"`
	Type   string `json:"type"`
}

func (h *Handler) CreateBed(c echo.Context) error {
	var req createBedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.svc.CreateBed(c.Request().Context(), req.Number, req.Ward, req.Type)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) GetBed(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	b, err := h.svc.GetBed(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) ListBeds(c echo.Context) error {
	pg := pagination.FromContext(c)
	ward := c.QueryParam("ward")
	status := Status(c.QueryParam("status"))
	items, total, err := h.svc.ListBeds(c.Request().Context(), ward, status, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type updateStatusRequest struct {
	Status Status `json:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.svc.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

type assignRequest struct {
	PatientID uuid.UUID `json:"patient_id"`
	Diagnosis *string   `json:"diagnosis,omitempty"`
}

func (h *Handler) AssignPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req assignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.PatientID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
	}
	b, err := h.svc.AssignPatient(c.Request().Context(), id, req.PatientID, req.Diagnosis)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

type releaseRequest struct {
	NextStatus Status `json:"next_status"`
	Action     Action `json:"action"`
}

func (h *Handler) ReleaseBed(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req releaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.NextStatus == "" {
		req.NextStatus = StatusAvailable
	}
	if req.Action == "" {
		req.Action = ActionDischarge
	}
	b, err := h.svc.ReleaseBed(c.Request().Context(), id, req.NextStatus, req.Action)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) GetActivity(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	items, err := h.svc.ActivityHistory(c.Request().Context(), id, pg.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}
