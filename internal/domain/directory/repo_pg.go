package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edops/edops/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

// NewRepoPG returns directory lookups backed by the suite's patient and
// practitioner tables.
func NewRepoPG(pool *pgxpool.Pool) *repoPG { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

func (r *repoPG) ResolvePatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT id, first_name, last_name, date_of_birth FROM patient WHERE id = $1`, id)

	var p Patient
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.DateOfBirth); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("resolve patient: %w", err)
	}
	return &p, nil
}

func (r *repoPG) ResolveDoctor(ctx context.Context, id uuid.UUID) (*Practitioner, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT id, display_name, specialty FROM practitioner WHERE id = $1`, id)

	var p Practitioner
	if err := row.Scan(&p.ID, &p.DisplayName, &p.Specialty); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPractitionerNotFound
		}
		return nil, fmt.Errorf("resolve practitioner: %w", err)
	}
	return &p, nil
}
