// Package emergency owns the case lifecycle: intake, triage updates, bed
// reassignment, ward transfer and discharge. It orchestrates the bed
// registry and the clinical log; every multi-entity mutation runs in one
// transaction.
package emergency

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/edops/edops/internal/domain/clinical"
)

type Status string

const (
	StatusTriage      Status = "TRIAGE"
	StatusAdmitted    Status = "ADMITTED"
	StatusObservation Status = "OBSERVATION"
	StatusDischarged  Status = "DISCHARGED"
)

var (
	ErrNotFound          = errors.New("emergency case not found")
	ErrAlreadyDischarged = errors.New("case already discharged")
)

// Case is an emergency encounter. Patient, doctor and bed display fields are
// snapshots refreshed when the reference changes; they are read
// optimizations, not sources of truth.
type Case struct {
	ID             uuid.UUID            `db:"id" json:"id"`
	PatientID      *uuid.UUID           `db:"patient_id" json:"patientId,omitempty"`
	PatientName    *string              `db:"patient_name" json:"patientName,omitempty"`
	PatientAge     *int                 `db:"patient_age" json:"patientAge,omitempty"`
	TriageLevel    int                  `db:"triage_level" json:"triageLevel"`
	ChiefComplaint string               `db:"chief_complaint" json:"chiefComplaint"`
	Diagnosis      *string              `db:"diagnosis" json:"diagnosis,omitempty"`
	Notes          *string              `db:"notes" json:"notes,omitempty"`
	BedID          *uuid.UUID           `db:"bed_id" json:"bedId,omitempty"`
	BedNumber      *string              `db:"bed_number" json:"bedNumber,omitempty"`
	DoctorID       *uuid.UUID           `db:"doctor_id" json:"doctorId,omitempty"`
	DoctorName     *string              `db:"doctor_name" json:"doctorName,omitempty"`
	VitalSigns     *clinical.VitalSigns `db:"vital_signs" json:"vitalSigns,omitempty"`
	Status         Status               `db:"status" json:"status"`
	AdmissionDate  time.Time            `db:"admission_date" json:"admissionDate"`
	DischargedAt   *time.Time           `db:"discharged_at" json:"dischargedAt,omitempty"`
	CreatedAt      time.Time            `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time            `db:"updated_at" json:"updatedAt"`
}

// Active reports whether the case still occupies ward resources.
func (c *Case) Active() bool {
	return c.Status != StatusDischarged
}
