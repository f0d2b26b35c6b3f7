package bed

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is the occupancy state of a physical bed.
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusOccupied    Status = "OCCUPIED"
	StatusCleaning    Status = "CLEANING"
	StatusMaintenance Status = "MAINTENANCE"
	StatusReserved    Status = "RESERVED"
)

// Action classifies a bed activity entry. The values are kept in the
// hospital's ward-board vocabulary: assignment, discharge, transfer-out and
// transfer-in.
type Action string

const (
	ActionAssignment  Action = "ASIGNACION"
	ActionDischarge   Action = "ALTA"
	ActionTransferOut Action = "TRASLADO"
	ActionTransferIn  Action = "INGRESO"
)

var (
	ErrNotFound        = errors.New("bed not found")
	ErrDuplicateNumber = errors.New("bed number already exists")
	ErrOccupied        = errors.New("bed already occupied")
	ErrNotAvailable    = errors.New("bed not available for assignment")
)

// Bed maps to the bed table. The occupancy fields (PatientID,
// AdmissionDate, Diagnosis) are only set while Status is OCCUPIED; they are
// cleared atomically with the status change on release.
type Bed struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Number        string     `db:"number" json:"number"`
	Ward          string     `db:"ward" json:"ward"`
	Type          string     `db:"bed_type" json:"type"`
	Status        Status     `db:"status" json:"status"`
	PatientID     *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	AdmissionDate *time.Time `db:"admission_date" json:"admission_date,omitempty"`
	Diagnosis     *string    `db:"diagnosis" json:"diagnosis,omitempty"`
	Notes         *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// Activity maps to the bed_activity table. Entries are append-only and form
// the audit trail of a bed's occupancy history.
type Activity struct {
	ID        uuid.UUID `db:"id" json:"id"`
	BedID     uuid.UUID `db:"bed_id" json:"bed_id"`
	Action    Action    `db:"action" json:"action"`
	Details   *string   `db:"details" json:"details,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
