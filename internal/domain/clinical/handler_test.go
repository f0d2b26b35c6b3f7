package clinical

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func doRequest(h echo.HandlerFunc, method, body string, params map[string]string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestHandlerRecordVitalSign(t *testing.T) {
	caseID := uuid.New()
	svc, _, _, _ := newTestService(caseID)
	h := NewHandler(svc)

	rec := doRequest(h.RecordVitalSign, http.MethodPost,
		`{"heartRate":88,"bloodPressure":"120/80"}`,
		map[string]string{"id": caseID.String()})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandlerRecordVitalSign_UnknownCase(t *testing.T) {
	svc, _, _, _ := newTestService()
	h := NewHandler(svc)

	rec := doRequest(h.RecordVitalSign, http.MethodPost,
		`{"heartRate":88}`,
		map[string]string{"id": uuid.NewString()})

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandlerRecordMedication_MissingFields(t *testing.T) {
	caseID := uuid.New()
	svc, _, _, _ := newTestService(caseID)
	h := NewHandler(svc)

	rec := doRequest(h.RecordMedication, http.MethodPost,
		`{"name":"Paracetamol"}`,
		map[string]string{"id": caseID.String()})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandlerDeleteAttachment_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService()
	h := NewHandler(svc)

	rec := doRequest(h.DeleteAttachment, http.MethodDelete, "",
		map[string]string{"attachmentId": uuid.NewString()})

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
