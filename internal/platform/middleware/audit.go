package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/edops/edops/internal/platform/auth"
)

// maxAuditPayload caps the request payload snapshot stored per entry.
const maxAuditPayload = 8 << 10

// AuditEntry captures one state-changing operation: who did what to which
// resource, when, and with what request payload.
type AuditEntry struct {
	UserID       string
	UserRoles    []string
	Action       string // create, update, delete
	ResourceType string
	ResourceID   string
	Payload      string
	Path         string
	Method       string
	IPAddress    string
	RequestID    string
	StatusCode   int
	Timestamp    time.Time
}

// AuditRecorder is the interface the audit middleware uses to persist
// entries, decoupling it from any concrete store so tests can provide a mock.
type AuditRecorder interface {
	RecordChange(entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordChange(entry AuditEntry) error {
	return f(entry)
}

// Audit returns middleware that emits one audit entry for every
// state-changing request under /api/v1 (POST, PUT, PATCH, DELETE). Reads are
// not audited. If no AuditRecorder is provided the entry is only emitted as a
// structured log, which is always written regardless.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !isMutation(req.Method) || !strings.HasPrefix(req.URL.Path, "/api/v1/") {
				return next(c)
			}

			// Snapshot the body before the handler consumes it.
			payload := snapshotBody(req)

			err := next(c)

			resourceType, resourceID := splitResourcePath(req.URL.Path)
			entry := AuditEntry{
				UserID:       auth.UserIDFromContext(req.Context()),
				UserRoles:    auth.RolesFromContext(req.Context()),
				Action:       methodToAction(req.Method),
				ResourceType: resourceType,
				ResourceID:   resourceID,
				Payload:      payload,
				Path:         req.URL.Path,
				Method:       req.Method,
				IPAddress:    c.RealIP(),
				StatusCode:   c.Response().Status,
				Timestamp:    time.Now().UTC(),
			}
			if rid, ok := c.Get("request_id").(string); ok {
				entry.RequestID = rid
			}

			if len(recorders) > 0 && recorders[0] != nil {
				if recErr := recorders[0].RecordChange(entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", entry.RequestID).
						Msg("failed to record audit entry")
				}
			}

			logger.Info().
				Str("type", "audit").
				Str("request_id", entry.RequestID).
				Str("user_id", entry.UserID).
				Strs("user_roles", entry.UserRoles).
				Str("action", entry.Action).
				Str("resource_type", entry.ResourceType).
				Str("resource_id", entry.ResourceID).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.StatusCode).
				Msg("state_change")

			return err
		}
	}
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func methodToAction(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// snapshotBody reads up to maxAuditPayload bytes of the request body and
// replaces it so downstream handlers can still bind it.
func snapshotBody(req *http.Request) string {
	if req.Body == nil {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(req.Body, maxAuditPayload))
	if err != nil {
		return ""
	}
	rest, _ := io.ReadAll(req.Body)
	req.Body = io.NopCloser(bytes.NewReader(append(body, rest...)))
	return string(body)
}

// splitResourcePath derives resource type and id from an /api/v1 path:
//
//	/api/v1/beds            -> ("beds", "")
//	/api/v1/beds/123        -> ("beds", "123")
//	/api/v1/beds/123/status -> ("beds", "123")
func splitResourcePath(path string) (string, string) {
	segments := strings.Split(strings.TrimPrefix(path, "/api/v1/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return "unknown", ""
	}
	if len(segments) > 1 && segments[1] != "" {
		return segments[0], segments[1]
	}
	return segments[0], ""
}
