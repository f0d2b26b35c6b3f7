package emergency

import (
	"context"

	"github.com/google/uuid"

	"github.com/edops/edops/internal/domain/clinical"
	"github.com/edops/edops/internal/domain/pharmacy"
)

// Repository is the case store. The pg implementation also satisfies
// clinical.Cases and pharmacy.CaseResolver so the log and the bridge can
// reach case state without importing this package's service.
type Repository interface {
	Create(ctx context.Context, c *Case) error
	GetByID(ctx context.Context, id uuid.UUID) (*Case, error)
	List(ctx context.Context, status Status, limit, offset int) ([]*Case, int, error)
	// Update persists every mutable column except the vitals snapshot,
	// which is owned by SetVitalsSnapshot.
	Update(ctx context.Context, c *Case) error
	// ListCritical returns active cases ordered by triage level ascending,
	// admission date ascending on ties.
	ListCritical(ctx context.Context, limit int) ([]*Case, error)

	CaseExists(ctx context.Context, id uuid.UUID) error
	SetVitalsSnapshot(ctx context.Context, caseID uuid.UUID, snapshot clinical.VitalSigns) error
	ResolveCaseParties(ctx context.Context, caseID uuid.UUID) (pharmacy.CaseParties, error)
}
