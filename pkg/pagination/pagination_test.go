package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContext_Defaults(t *testing.T) {
	p := paramsFor(t, "")
	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected offset 0, got %d", p.Offset)
	}
}

func TestFromContext_Explicit(t *testing.T) {
	p := paramsFor(t, "limit=50&offset=10")
	if p.Limit != 50 {
		t.Errorf("expected limit 50, got %d", p.Limit)
	}
	if p.Offset != 10 {
		t.Errorf("expected offset 10, got %d", p.Offset)
	}
}

func TestFromContext_ClampsMax(t *testing.T) {
	p := paramsFor(t, "limit=5000")
	if p.Limit != MaxLimit {
		t.Errorf("expected limit clamped to %d, got %d", MaxLimit, p.Limit)
	}
}

func TestNewResponse_HasMore(t *testing.T) {
	r := NewResponse([]int{1, 2, 3}, 10, 3, 0)
	if !r.HasMore {
		t.Error("expected HasMore true when more results remain")
	}
	r = NewResponse([]int{1}, 1, 20, 0)
	if r.HasMore {
		t.Error("expected HasMore false on last page")
	}
}
