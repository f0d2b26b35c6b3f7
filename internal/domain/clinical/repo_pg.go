package clinical

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

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const vitalSignCols = `id, emergency_case_id, heart_rate, blood_pressure, temperature,
	oxygen_saturation, respiratory_rate, performed_by, created_at`

func scanVitalSign(row pgx.Row) (*VitalSign, error) {
	var v VitalSign
	err := row.Scan(&v.ID, &v.EmergencyCaseID, &v.HeartRate, &v.BloodPressure,
		&v.Temperature, &v.OxygenSaturation, &v.RespiratoryRate, &v.PerformedBy, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repoPG) CreateVitalSign(ctx context.Context, v *VitalSign) error {
	v.ID = uuid.New()
	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO vital_sign (id, emergency_case_id, heart_rate, blood_pressure,
			temperature, oxygen_saturation, respiratory_rate, performed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		v.ID, v.EmergencyCaseID, v.HeartRate, v.BloodPressure, v.Temperature,
		v.OxygenSaturation, v.RespiratoryRate, v.PerformedBy)
	if err := row.Scan(&v.CreatedAt); err != nil {
		return fmt.Errorf("insert vital sign: %w", err)
	}
	return nil
}

func (r *repoPG) ListVitalSigns(ctx context.Context, caseID uuid.UUID, limit, offset int) ([]*VitalSign, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM vital_sign WHERE emergency_case_id = $1`, caseID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count vital signs: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+vitalSignCols+` FROM vital_sign
		WHERE emergency_case_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`, caseID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list vital signs: %w", err)
	}
	defer rows.Close()

	var items []*VitalSign
	for rows.Next() {
		v, err := scanVitalSign(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, v)
	}
	return items, total, rows.Err()
}

func (r *repoPG) CreateMedication(ctx context.Context, m *MedicationAdministration) error {
	m.ID = uuid.New()
	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medication_administration (id, emergency_case_id, name, dosage,
			route, administered_by, medication_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		m.ID, m.EmergencyCaseID, m.Name, m.Dosage, m.Route,
		m.AdministeredBy, m.MedicationID, m.Notes)
	if err := row.Scan(&m.CreatedAt); err != nil {
		return fmt.Errorf("insert medication administration: %w", err)
	}
	return nil
}

func (r *repoPG) ListMedications(ctx context.Context, caseID uuid.UUID, limit, offset int) ([]*MedicationAdministration, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM medication_administration WHERE emergency_case_id = $1`,
		caseID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count medications: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, emergency_case_id, name, dosage, route, administered_by,
			medication_id, notes, created_at
		FROM medication_administration
		WHERE emergency_case_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`, caseID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list medications: %w", err)
	}
	defer rows.Close()

	var items []*MedicationAdministration
	for rows.Next() {
		var m MedicationAdministration
		if err := rows.Scan(&m.ID, &m.EmergencyCaseID, &m.Name, &m.Dosage, &m.Route,
			&m.AdministeredBy, &m.MedicationID, &m.Notes, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &m)
	}
	return items, total, rows.Err()
}

func (r *repoPG) CreateProcedure(ctx context.Context, p *Procedure) error {
	p.ID = uuid.New()
	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO procedure_record (id, emergency_case_id, name, description,
			performed_by, result)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		p.ID, p.EmergencyCaseID, p.Name, p.Description, p.PerformedBy, p.Result)
	if err := row.Scan(&p.CreatedAt); err != nil {
		return fmt.Errorf("insert procedure: %w", err)
	}
	return nil
}

func (r *repoPG) ListProcedures(ctx context.Context, caseID uuid.UUID, limit, offset int) ([]*Procedure, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM procedure_record WHERE emergency_case_id = $1`,
		caseID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count procedures: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, emergency_case_id, name, description, performed_by, result, created_at
		FROM procedure_record
		WHERE emergency_case_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`, caseID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list procedures: %w", err)
	}
	defer rows.Close()

	var items []*Procedure
	for rows.Next() {
		var p Procedure
		if err := rows.Scan(&p.ID, &p.EmergencyCaseID, &p.Name, &p.Description,
			&p.PerformedBy, &p.Result, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &p)
	}
	return items, total, rows.Err()
}

const attachmentCols = `id, emergency_case_id, title, url, attachment_type, created_at, updated_at`

func scanAttachment(row pgx.Row) (*Attachment, error) {
	var a Attachment
	err := row.Scan(&a.ID, &a.EmergencyCaseID, &a.Title, &a.URL, &a.Type,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttachmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) CreateAttachment(ctx context.Context, a *Attachment) error {
	a.ID = uuid.New()
	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO attachment (id, emergency_case_id, title, url, attachment_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		a.ID, a.EmergencyCaseID, a.Title, a.URL, a.Type)
	if err := row.Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		return fmt.Errorf("insert attachment: %w", err)
	}
	return nil
}

func (r *repoPG) GetAttachment(ctx context.Context, id uuid.UUID) (*Attachment, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+attachmentCols+` FROM attachment WHERE id = $1`, id)
	return scanAttachment(row)
}

func (r *repoPG) RenameAttachment(ctx context.Context, id uuid.UUID, title string) (*Attachment, error) {
	row := r.conn(ctx).QueryRow(ctx, `
		UPDATE attachment SET title = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+attachmentCols, id, title)
	return scanAttachment(row)
}

func (r *repoPG) DeleteAttachment(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM attachment WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAttachmentNotFound
	}
	return nil
}

func (r *repoPG) ListAttachments(ctx context.Context, caseID uuid.UUID, limit, offset int) ([]*Attachment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM attachment WHERE emergency_case_id = $1`,
		caseID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count attachments: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+attachmentCols+` FROM attachment
		WHERE emergency_case_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`, caseID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	var items []*Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}
