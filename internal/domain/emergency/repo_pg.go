package emergency

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edops/edops/internal/domain/clinical"
	"github.com/edops/edops/internal/domain/pharmacy"
	"github.com/edops/edops/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const caseCols = `id, patient_id, patient_name, patient_age, triage_level, chief_complaint,
	diagnosis, notes, bed_id, bed_number, doctor_id, doctor_name, vital_signs,
	status, admission_date, discharged_at, created_at, updated_at`

func scanCase(row pgx.Row) (*Case, error) {
	var c Case
	err := row.Scan(&c.ID, &c.PatientID, &c.PatientName, &c.PatientAge, &c.TriageLevel,
		&c.ChiefComplaint, &c.Diagnosis, &c.Notes, &c.BedID, &c.BedNumber,
		&c.DoctorID, &c.DoctorName, &c.VitalSigns, &c.Status,
		&c.AdmissionDate, &c.DischargedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan emergency case: %w", err)
	}
	return &c, nil
}

func (r *repoPG) Create(ctx context.Context, c *Case) error {
	c.ID = uuid.New()
	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO emergency_case (id, patient_id, patient_name, patient_age,
			triage_level, chief_complaint, diagnosis, notes, bed_id, bed_number,
			doctor_id, doctor_name, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING admission_date, created_at, updated_at`,
		c.ID, c.PatientID, c.PatientName, c.PatientAge, c.TriageLevel,
		c.ChiefComplaint, c.Diagnosis, c.Notes, c.BedID, c.BedNumber,
		c.DoctorID, c.DoctorName, c.Status)
	if err := row.Scan(&c.AdmissionDate, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("insert emergency case: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Case, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+caseCols+` FROM emergency_case WHERE id = $1`, id)
	return scanCase(row)
}

func (r *repoPG) List(ctx context.Context, status Status, limit, offset int) ([]*Case, int, error) {
	where := ""
	countArgs := []any{}
	if status != "" {
		where = " WHERE status = $1"
		countArgs = append(countArgs, status)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM emergency_case`+where, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count emergency cases: %w", err)
	}

	args := append(countArgs, limit, offset)
	query := fmt.Sprintf(`SELECT `+caseCols+` FROM emergency_case`+where+`
		ORDER BY admission_date DESC
		LIMIT $%d OFFSET $%d`, len(countArgs)+1, len(countArgs)+2)
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list emergency cases: %w", err)
	}
	defer rows.Close()

	var items []*Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, c *Case) error {
	row := r.conn(ctx).QueryRow(ctx, `
		UPDATE emergency_case SET
			patient_id = $2, patient_name = $3, patient_age = $4,
			triage_level = $5, chief_complaint = $6, diagnosis = $7, notes = $8,
			bed_id = $9, bed_number = $10, doctor_id = $11, doctor_name = $12,
			status = $13, discharged_at = $14, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		c.ID, c.PatientID, c.PatientName, c.PatientAge, c.TriageLevel,
		c.ChiefComplaint, c.Diagnosis, c.Notes, c.BedID, c.BedNumber,
		c.DoctorID, c.DoctorName, c.Status, c.DischargedAt)
	if err := row.Scan(&c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update emergency case: %w", err)
	}
	return nil
}

func (r *repoPG) ListCritical(ctx context.Context, limit int) ([]*Case, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+caseCols+` FROM emergency_case
		WHERE status IN ('TRIAGE', 'ADMITTED', 'OBSERVATION')
		ORDER BY triage_level ASC, admission_date ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list critical cases: %w", err)
	}
	defer rows.Close()

	var items []*Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// CaseExists implements clinical.Cases.
func (r *repoPG) CaseExists(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM emergency_case WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("case exists: %w", err)
	}
	if !exists {
		return clinical.ErrCaseNotFound
	}
	return nil
}

// SetVitalsSnapshot implements clinical.Cases. It joins the caller's
// transaction so snapshot and history entry commit together.
func (r *repoPG) SetVitalsSnapshot(ctx context.Context, caseID uuid.UUID, snapshot clinical.VitalSigns) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE emergency_case SET vital_signs = $2, updated_at = NOW()
		WHERE id = $1`, caseID, snapshot)
	if err != nil {
		return fmt.Errorf("set vitals snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clinical.ErrCaseNotFound
	}
	return nil
}

// ResolveCaseParties implements pharmacy.CaseResolver.
func (r *repoPG) ResolveCaseParties(ctx context.Context, caseID uuid.UUID) (pharmacy.CaseParties, error) {
	var p pharmacy.CaseParties
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT patient_id, doctor_id FROM emergency_case WHERE id = $1`, caseID).
		Scan(&p.PatientID, &p.DoctorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pharmacy.CaseParties{}, ErrNotFound
		}
		return pharmacy.CaseParties{}, fmt.Errorf("resolve case parties: %w", err)
	}
	return p, nil
}
