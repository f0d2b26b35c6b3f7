package bed

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, b *Bed) error
	GetByID(ctx context.Context, id uuid.UUID) (*Bed, error)
	// List returns beds filtered by ward and/or status; empty values mean
	// no filter.
	List(ctx context.Context, ward string, status Status, limit, offset int) ([]*Bed, int, error)
	// Occupy flips an unoccupied bed to OCCUPIED via compare-and-swap on
	// the status column. Returns ErrOccupied when another occupant holds
	// the bed and ErrNotAvailable when the bed is in CLEANING or
	// MAINTENANCE.
	Occupy(ctx context.Context, id, patientID uuid.UUID, admission time.Time, diagnosis *string) (*Bed, error)
	// Release clears the occupancy fields atomically with the status
	// change to next (AVAILABLE or CLEANING).
	Release(ctx context.Context, id uuid.UUID, next Status) (*Bed, error)
	// UpdateStatus applies an administrative transition; it refuses to
	// touch an OCCUPIED bed.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Bed, error)
	// SetDiagnosis updates the occupant's working diagnosis shown on the
	// ward board.
	SetDiagnosis(ctx context.Context, id uuid.UUID, diagnosis string) error
	AddActivity(ctx context.Context, a *Activity) error
	ActivityHistory(ctx context.Context, bedID uuid.UUID, limit int) ([]*Activity, error)
}
