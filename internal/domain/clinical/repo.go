package clinical

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the append-only clinical log store. List queries return
// entries in recording order.
type Repository interface {
	CreateVitalSign(ctx context.Context, v *VitalSign) error
	ListVitalSigns(ctx context.Context, caseID uuid.UUID, limit, offset int) ([]*VitalSign, int, error)

	CreateMedication(ctx context.Context, m *MedicationAdministration) error
	ListMedications(ctx context.Context, caseID uuid.UUID, limit, offset int) ([]*MedicationAdministration, int, error)

	CreateProcedure(ctx context.Context, p *Procedure) error
	ListProcedures(ctx context.Context, caseID uuid.UUID, limit, offset int) ([]*Procedure, int, error)

	CreateAttachment(ctx context.Context, a *Attachment) error
	GetAttachment(ctx context.Context, id uuid.UUID) (*Attachment, error)
	RenameAttachment(ctx context.Context, id uuid.UUID, title string) (*Attachment, error)
	DeleteAttachment(ctx context.Context, id uuid.UUID) error
	ListAttachments(ctx context.Context, caseID uuid.UUID, limit, offset int) ([]*Attachment, int, error)
}

// Cases is the slice of the case lifecycle the log needs: existence checks
// and snapshot refresh. The concrete implementation lives with the case
// repository; its snapshot write joins the caller's transaction.
type Cases interface {
	CaseExists(ctx context.Context, id uuid.UUID) error
	SetVitalsSnapshot(ctx context.Context, caseID uuid.UUID, snapshot VitalSigns) error
}

// PharmacyBridge converts a recorded administration into a dispense order.
// The call is best-effort and never reports failure.
type PharmacyBridge interface {
	MedicationToOrder(ctx context.Context, caseID uuid.UUID, medicationID *uuid.UUID, name string)
}
