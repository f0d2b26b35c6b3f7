package directory

import (
	"context"

	"github.com/google/uuid"
)

// PatientDirectory resolves patient identities for snapshotting.
type PatientDirectory interface {
	ResolvePatient(ctx context.Context, id uuid.UUID) (*Patient, error)
}

// StaffDirectory resolves practitioner display names for snapshotting.
type StaffDirectory interface {
	ResolveDoctor(ctx context.Context, id uuid.UUID) (*Practitioner, error)
}
