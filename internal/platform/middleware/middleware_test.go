package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestRequestID_GeneratesNew(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		rid := c.Get("request_id").(string)
		if rid == "" {
			t.Error("expected request_id to be generated")
		}
		return c.String(http.StatusOK, "ok")
	}

	mw := RequestID()
	if err := mw(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected X-Request-ID response header")
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-id-1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := RequestID()
	h := mw(func(c echo.Context) error {
		if c.Get("request_id").(string) != "client-id-1" {
			t.Error("expected client request id to be preserved")
		}
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header().Get(RequestIDHeader) != "client-id-1" {
		t.Error("expected client request id echoed in response")
	}
}

func TestLogger_PassesThrough(t *testing.T) {
	logger := zerolog.New(os.Stdout)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/beds", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Logger(logger)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRecovery_ConvertsPanic(t *testing.T) {
	logger := zerolog.New(os.Stdout)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Recovery(logger)(func(c echo.Context) error {
		panic("boom")
	})
	err := h(c)
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %v", err)
	}
}
