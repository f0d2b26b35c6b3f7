package bed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/edops/edops/internal/platform/db"
)

// DefaultActivityLimit is how many recent activity entries queries return
// when the caller does not ask for a specific amount.
const DefaultActivityLimit = 10

type Service struct {
	repo Repository
	tx   db.TxRunner
}

func NewService(repo Repository, tx db.TxRunner) *Service {
	return &Service{repo: repo, tx: tx}
}

func (s *Service) CreateBed(ctx context.Context, number, ward, bedType string) (*Bed, error) {
	if number == "" {
		return nil, fmt.Errorf("number is required")
	}
	if ward == "" {
		return nil, fmt.Errorf("ward is required")
	}
	if bedType == "" {
		return nil, fmt.Errorf("type is required")
	}
	b := &Bed{Number: number, Ward: ward, Type: bedType, Status: StatusAvailable}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) GetBed(ctx context.Context, id uuid.UUID) (*Bed, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListBeds(ctx context.Context, ward string, status Status, limit, offset int) ([]*Bed, int, error) {
	return s.repo.List(ctx, ward, status, limit, offset)
}

// AssignPatient occupies a bed for a fresh admission and records an
// ASIGNACION activity entry. Occupancy and activity commit together.
func (s *Service) AssignPatient(ctx context.Context, bedID, patientID uuid.UUID, diagnosis *string) (*Bed, error) {
	var assigned *Bed
	err := s.tx(ctx, func(ctx context.Context) error {
		b, err := s.repo.Occupy(ctx, bedID, patientID, time.Now(), diagnosis)
		if err != nil {
			return err
		}
		assigned = b
		details := fmt.Sprintf("Paciente %s asignado", patientID)
		return s.repo.AddActivity(ctx, &Activity{BedID: bedID, Action: ActionAssignment, Details: &details})
	})
	if err != nil {
		return nil, err
	}
	return assigned, nil
}

// OccupyForTransfer has the same occupancy effect as AssignPatient but logs
// INGRESO so the audit trail distinguishes "received via transfer" from a
// fresh assignment.
func (s *Service) OccupyForTransfer(ctx context.Context, bedID, patientID uuid.UUID, diagnosis *string) (*Bed, error) {
	var occupied *Bed
	err := s.tx(ctx, func(ctx context.Context) error {
		b, err := s.repo.Occupy(ctx, bedID, patientID, time.Now(), diagnosis)
		if err != nil {
			return err
		}
		occupied = b
		details := fmt.Sprintf("Paciente %s recibido por traslado", patientID)
		return s.repo.AddActivity(ctx, &Activity{BedID: bedID, Action: ActionTransferIn, Details: &details})
	})
	if err != nil {
		return nil, err
	}
	return occupied, nil
}

// ReleaseBed clears the occupancy fields together with the status change and
// records the caller-appropriate activity: ALTA for a discharge, TRASLADO
// for a transfer out.
func (s *Service) ReleaseBed(ctx context.Context, bedID uuid.UUID, next Status, action Action) (*Bed, error) {
	if next != StatusAvailable && next != StatusCleaning {
		return nil, fmt.Errorf("release target must be AVAILABLE or CLEANING, got %s", next)
	}
	if action != ActionDischarge && action != ActionTransferOut {
		return nil, fmt.Errorf("release activity must be ALTA or TRASLADO, got %s", action)
	}
	var released *Bed
	err := s.tx(ctx, func(ctx context.Context) error {
		b, err := s.repo.Release(ctx, bedID, next)
		if err != nil {
			return err
		}
		released = b
		return s.repo.AddActivity(ctx, &Activity{BedID: bedID, Action: action})
	})
	if err != nil {
		return nil, err
	}
	return released, nil
}

// UpdateStatus applies an administrative transition (CLEANING done,
// MAINTENANCE, RESERVED). Occupied beds are released through
// ReleaseBed, never through here.
func (s *Service) UpdateStatus(ctx context.Context, bedID uuid.UUID, status Status) (*Bed, error) {
	switch status {
	case StatusAvailable, StatusCleaning, StatusMaintenance, StatusReserved:
	default:
		return nil, fmt.Errorf("invalid bed status %q", status)
	}
	return s.repo.UpdateStatus(ctx, bedID, status)
}

// SetDiagnosis refreshes the occupant's working diagnosis shown on the ward
// board.
func (s *Service) SetDiagnosis(ctx context.Context, bedID uuid.UUID, diagnosis string) error {
	return s.repo.SetDiagnosis(ctx, bedID, diagnosis)
}

func (s *Service) ActivityHistory(ctx context.Context, bedID uuid.UUID, limit int) ([]*Activity, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	return s.repo.ActivityHistory(ctx, bedID, limit)
}
