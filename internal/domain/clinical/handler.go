package clinical

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
	g := api.Group("", auth.RequireRole("admin", "physician", "nurse"))

	g.POST("/emergency-cases/:id/vital-signs", h.RecordVitalSign)
	g.GET("/emergency-cases/:id/vital-signs", h.ListVitalSigns)
	g.POST("/emergency-cases/:id/medications", h.RecordMedication)
	g.GET("/emergency-cases/:id/medications", h.ListMedications)
	g.POST("/emergency-cases/:id/procedures", h.RecordProcedure)
	g.GET("/emergency-cases/:id/procedures", h.ListProcedures)
	g.POST("/emergency-cases/:id/attachments", h.RecordAttachment)
	g.GET("/emergency-cases/:id/attachments", h.ListAttachments)
	g.PATCH("/attachments/:attachmentId", h.RenameAttachment)
	g.DELETE("/attachments/:attachmentId", h.DeleteAttachment)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrCaseNotFound), errors.Is(err, ErrAttachmentNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}

func caseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid case id")
	}
	return id, nil
}

type vitalSignRequest struct {
	HeartRate        *int     `json:"heartRate"`
	BloodPressure    *string  `json:"bloodPressure"`
	Temperature      *float64 `json:"temperature"`
	OxygenSaturation *int     `json:"oxygenSaturation"`
	RespiratoryRate  *int     `json:"respiratoryRate"`
	PerformedBy      *string  `json:"performedBy"`
}

func (h *Handler) RecordVitalSign(c echo.Context) error {
	id, err := caseID(c)
	if err != nil {
		return err
	}
	var req vitalSignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	reading := VitalSigns{
		HeartRate:        req.HeartRate,
		BloodPressure:    req.BloodPressure,
		Temperature:      req.Temperature,
		OxygenSaturation: req.OxygenSaturation,
		RespiratoryRate:  req.RespiratoryRate,
	}
	v, err := h.svc.RecordVitalSign(c.Request().Context(), id, reading, req.PerformedBy)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) ListVitalSigns(c echo.Context) error {
	id, err := caseID(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListVitalSigns(c.Request().Context(), id, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type medicationRequest struct {
	Name           string     `json:"name"`
	Dosage         string     `json:"dosage"`
	Route          string     `json:"route"`
	AdministeredBy *string    `json:"administeredBy"`
	MedicationID   *uuid.UUID `json:"medicationId"`
	Notes          *string    `json:"notes"`
}

func (h *Handler) RecordMedication(c echo.Context) error {
	id, err := caseID(c)
	if err != nil {
		return err
	}
	var req medicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m := &MedicationAdministration{
		Name:           req.Name,
		Dosage:         req.Dosage,
		Route:          req.Route,
		AdministeredBy: req.AdministeredBy,
		MedicationID:   req.MedicationID,
		Notes:          req.Notes,
	}
	m, err = h.svc.RecordMedication(c.Request().Context(), id, m)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) ListMedications(c echo.Context) error {
	id, err := caseID(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListMedications(c.Request().Context(), id, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type procedureRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	PerformedBy *string `json:"performedBy"`
	Result      *string `json:"result"`
}

func (h *Handler) RecordProcedure(c echo.Context) error {
	id, err := caseID(c)
	if err != nil {
		return err
	}
	var req procedureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p := &Procedure{
		Name:        req.Name,
		Description: req.Description,
		PerformedBy: req.PerformedBy,
		Result:      req.Result,
	}
	p, err = h.svc.RecordProcedure(c.Request().Context(), id, p)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) ListProcedures(c echo.Context) error {
	id, err := caseID(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListProcedures(c.Request().Context(), id, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type attachmentRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

func (h *Handler) RecordAttachment(c echo.Context) error {
	id, err := caseID(c)
	if err != nil {
		return err
	}
	var req attachmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a := &Attachment{Title: req.Title, URL: req.URL, Type: req.Type}
	a, err = h.svc.RecordAttachment(c.Request().Context(), id, a)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) ListAttachments(c echo.Context) error {
	id, err := caseID(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListAttachments(c.Request().Context(), id, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type renameAttachmentRequest struct {
	Title string `json:"title"`
}

func (h *Handler) RenameAttachment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("attachmentId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid attachment id")
	}
	var req renameAttachmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.RenameAttachment(c.Request().Context(), id, req.Title)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAttachment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("attachmentId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid attachment id")
	}
	if err := h.svc.DeleteAttachment(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
