package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

const pingTimeout = 5 * time.Second

// PoolStats is the pool snapshot reported by the readiness endpoint.
type PoolStats struct {
	Total    int32  `json:"total"`
	Idle     int32  `json:"idle"`
	InUse    int32  `json:"in_use"`
	Max      int32  `json:"max"`
	Acquires int64  `json:"acquires"`
	WaitTime string `json:"wait_time"`
}

// Snapshot reads the current connection pool counters.
func Snapshot(pool *pgxpool.Pool) PoolStats {
	stat := pool.Stat()
	return PoolStats{
		Total:    stat.TotalConns(),
		Idle:     stat.IdleConns(),
		InUse:    stat.AcquiredConns(),
		Max:      stat.MaxConns(),
		Acquires: stat.AcquireCount(),
		WaitTime: stat.AcquireDuration().String(),
	}
}

// HealthHandler reports database reachability and pool pressure. Returns 503
// when a ping fails so load balancers stop routing to this instance.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), pingTimeout)
		defer cancel()

		stats := Snapshot(pool)
		if err := pool.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
				"database": "down",
				"error":    err.Error(),
				"pool":     stats,
			})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"database": "up",
			"pool":     stats,
		})
	}
}
