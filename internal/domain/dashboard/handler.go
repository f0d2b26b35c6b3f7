package dashboard

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/edops/edops/internal/domain/bed"
	"github.com/edops/edops/internal/domain/emergency"
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
	g := api.Group("/dashboard", auth.RequireRole("admin", "physician", "nurse"))

	g.GET("/ward-occupancy", h.WardOccupancy)
	g.GET("/critical", h.CriticalCases)
	g.GET("/beds/:id/activity", h.BedActivity)
	g.GET("/cases/:id", h.CaseDetail)
}

func (h *Handler) WardOccupancy(c echo.Context) error {
	items, err := h.svc.WardOccupancy(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CriticalCases(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, err := h.svc.CriticalCases(c.Request().Context(), pg.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) BedActivity(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.BedActivity(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, bed.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CaseDetail(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	detail, err := h.svc.CaseDetail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, emergency.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, detail)
}
