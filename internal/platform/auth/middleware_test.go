package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testKey = []byte("test-signing-key")

func signToken(t *testing.T, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(testKey)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runMiddleware(mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, UserIDFromContext(c.Request().Context()))
	})
	return rec, h(c)
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	token := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "nurse-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Name:  "E. Sanchez",
		Roles: []string{"nurse"},
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec, err := runMiddleware(JWTMiddleware(JWTConfig{SigningKey: testKey}), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Body.String() != "nurse-1" {
		t.Errorf("expected subject in context, got %q", rec.Body.String())
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := runMiddleware(JWTMiddleware(JWTConfig{SigningKey: testKey}), req)
	if err == nil {
		t.Error("expected error for missing authorization header")
	}
}

func TestJWTMiddleware_BadSignature(t *testing.T) {
	token := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "x",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	_, err := runMiddleware(JWTMiddleware(JWTConfig{SigningKey: []byte("other-key")}), req)
	if err == nil {
		t.Error("expected error for wrong signing key")
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	token := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "x",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	_, err := runMiddleware(JWTMiddleware(JWTConfig{SigningKey: testKey}), req)
	if err == nil {
		t.Error("expected error for expired token")
	}
}

func TestDevAuthMiddleware_GrantsAdmin(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := DevAuthMiddleware()(func(c echo.Context) error {
		roles := RolesFromContext(c.Request().Context())
		if len(roles) != 1 || roles[0] != "admin" {
			t.Errorf("expected admin role, got %v", roles)
		}
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
