package pharmacy

import (
	"context"

	"github.com/google/uuid"
)

// Inventory is the pharmacy-side collaborator the bridge talks to.
type Inventory interface {
	// FindMedication prefers an exact id match; with no id it falls back to
	// a case-insensitive name match. Returns ErrMedicationNotFound when
	// nothing resolves.
	FindMedication(ctx context.Context, id *uuid.UUID, name string) (*Medication, error)
	CreateOrder(ctx context.Context, o *Order) error
}

// CaseParties are the order references resolved from an emergency case.
// Either id may be absent for unidentified patients or unassigned cases.
type CaseParties struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
}

// CaseResolver is the slice of the case lifecycle the bridge needs. The
// concrete implementation lives with the case repository.
type CaseResolver interface {
	ResolveCaseParties(ctx context.Context, caseID uuid.UUID) (CaseParties, error)
}
