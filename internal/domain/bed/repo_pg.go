package bed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edops/edops/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const bedCols = `id, number, ward, bed_type, status, patient_id, admission_date,
	diagnosis, notes, created_at, updated_at`

func scanBed(row pgx.Row) (*Bed, error) {
	var b Bed
	err := row.Scan(&b.ID, &b.Number, &b.Ward, &b.Type, &b.Status, &b.PatientID, &b.AdmissionDate,
		&b.Diagnosis, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &b, err
}

func (r *repoPG) Create(ctx context.Context, b *Bed) error {
	b.ID = uuid.New()
	if b.Status == "" {
		b.Status = StatusAvailable
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO bed (id, number, ward, bed_type, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		b.ID, b.Number, b.Ward, b.Type, b.Status, b.Notes)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateNumber
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Bed, error) {
	return scanBed(r.conn(ctx).QueryRow(ctx, `SELECT `+bedCols+` FROM bed WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, ward string, status Status, limit, offset int) ([]*Bed, int, error) {
	query := `SELECT ` + bedCols + ` FROM bed WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM bed WHERE 1=1`
	var args []interface{}
	idx := 1

	if ward != "" {
		query += fmt.Sprintf(` AND ward = $%d`, idx)
		countQuery += fmt.Sprintf(` AND ward = $%d`, idx)
		args = append(args, ward)
		idx++
	}
	if status != "" {
		query += fmt.Sprintf(` AND status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, status)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY ward, number LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Bed
	for rows.Next() {
		b, err := scanBed(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, b)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Occupy(ctx context.Context, id, patientID uuid.UUID, admission time.Time, diagnosis *string) (*Bed, error) {
	// Compare-and-swap on the status column: under concurrent assignment
	// exactly one writer wins, the other sees zero rows affected.
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE bed SET status=$2, patient_id=$3, admission_date=$4, diagnosis=$5, updated_at=NOW()
		WHERE id = $1 AND status IN ('AVAILABLE','RESERVED')`,
		id, StatusOccupied, patientID, admission, diagnosis)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		// Idempotent retry: the same patient already holds this bed.
		if current.Status == StatusOccupied && current.PatientID != nil && *current.PatientID == patientID {
			return current, nil
		}
		if current.Status == StatusOccupied {
			return nil, ErrOccupied
		}
		return nil, ErrNotAvailable
	}
	return r.GetByID(ctx, id)
}

func (r *repoPG) Release(ctx context.Context, id uuid.UUID, next Status) (*Bed, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE bed SET status=$2, patient_id=NULL, admission_date=NULL, diagnosis=NULL, updated_at=NOW()
		WHERE id = $1`,
		id, next)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Bed, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE bed SET status=$2, updated_at=NOW()
		WHERE id = $1 AND status <> 'OCCUPIED'`,
		id, status)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.Status == StatusOccupied {
			return nil, ErrOccupied
		}
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *repoPG) SetDiagnosis(ctx context.Context, id uuid.UUID, diagnosis string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE bed SET diagnosis=$2, updated_at=NOW()
		WHERE id = $1 AND status = 'OCCUPIED'`,
		id, diagnosis)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) AddActivity(ctx context.Context, a *Activity) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO bed_activity (id, bed_id, action, details)
		VALUES ($1,$2,$3,$4)`,
		a.ID, a.BedID, a.Action, a.Details)
	return err
}

func (r *repoPG) ActivityHistory(ctx context.Context, bedID uuid.UUID, limit int) ([]*Activity, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, bed_id, action, details, created_at
		FROM bed_activity WHERE bed_id = $1 ORDER BY created_at DESC LIMIT $2`,
		bedID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.BedID, &a.Action, &a.Details, &a.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &a)
	}
	return items, rows.Err()
}
