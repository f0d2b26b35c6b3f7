package dashboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edops/edops/internal/platform/db"
)

// OccupancyRepo reads the raw per-ward bed status buckets.
type OccupancyRepo interface {
	BedStatusCounts(ctx context.Context) ([]StatusCount, error)
}

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepoPG(pool *pgxpool.Pool) OccupancyRepo { return &repoPG{pool: pool} }

func (r *repoPG) BedStatusCounts(ctx context.Context) ([]StatusCount, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT ward, status, COUNT(*) FROM bed
		GROUP BY ward, status
		ORDER BY ward`)
	if err != nil {
		return nil, fmt.Errorf("bed status counts: %w", err)
	}
	defer rows.Close()

	var out []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Ward, &sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}
