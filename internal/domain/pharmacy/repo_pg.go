package pharmacy

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

func NewRepoPG(pool *pgxpool.Pool) Inventory { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const medicationCols = `id, name, presentation, stock, created_at, updated_at`

func scanMedication(row pgx.Row) (*Medication, error) {
	var m Medication
	err := row.Scan(&m.ID, &m.Name, &m.Presentation, &m.Stock, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMedicationNotFound
		}
		return nil, fmt.Errorf("scan medication: %w", err)
	}
	return &m, nil
}

func (r *repoPG) FindMedication(ctx context.Context, id *uuid.UUID, name string) (*Medication, error) {
	if id != nil {
		row := r.conn(ctx).QueryRow(ctx,
			`SELECT `+medicationCols+` FROM medication WHERE id = $1`, *id)
		m, err := scanMedication(row)
		if err == nil || !errors.Is(err, ErrMedicationNotFound) {
			return m, err
		}
		// Stale or foreign id on the clinical entry; fall through to the name.
	}
	if name == "" {
		return nil, ErrMedicationNotFound
	}
	row := r.conn(ctx).QueryRow(ctx, `
		SELECT `+medicationCols+` FROM medication
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY LENGTH(name) ASC
		LIMIT 1`, name)
	return scanMedication(row)
}

func (r *repoPG) CreateOrder(ctx context.Context, o *Order) error {
	var seq int64
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT nextval('pharmacy_order_number_seq')`).Scan(&seq); err != nil {
		return fmt.Errorf("next order number: %w", err)
	}
	o.ID = uuid.New()
	o.OrderNumber = fmt.Sprintf("ER-%06d", seq)
	if o.Quantity == 0 {
		o.Quantity = 1
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}

	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO pharmacy_order (id, order_number, medication_id, quantity,
			doctor_id, patient_id, emergency_case_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		o.ID, o.OrderNumber, o.MedicationID, o.Quantity,
		o.DoctorID, o.PatientID, o.EmergencyCaseID, o.Status)
	if err := row.Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
		return fmt.Errorf("insert pharmacy order: %w", err)
	}
	return nil
}
