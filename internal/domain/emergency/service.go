package emergency

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edops/edops/internal/domain/bed"
	"github.com/edops/edops/internal/domain/clinical"
	"github.com/edops/edops/internal/domain/directory"
	"github.com/edops/edops/internal/platform/db"
)

type Service struct {
	repo     Repository
	beds     *bed.Service
	clinical *clinical.Service
	patients directory.PatientDirectory
	staff    directory.StaffDirectory
	tx       db.TxRunner
	log      zerolog.Logger
}

func NewService(repo Repository, beds *bed.Service, clin *clinical.Service,
	patients directory.PatientDirectory, staff directory.StaffDirectory,
	tx db.TxRunner, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		beds:     beds,
		clinical: clin,
		patients: patients,
		staff:    staff,
		tx:       tx,
		log:      log,
	}
}

type CreateCaseInput struct {
	PatientID      *uuid.UUID
	TriageLevel    int
	ChiefComplaint string
	Diagnosis      *string
	Notes          *string
	BedID          *uuid.UUID
	DoctorID       *uuid.UUID
	VitalSigns     *clinical.VitalSigns
}

// CreateCase admits a new encounter. Directory snapshots, optional bed
// occupancy and the optional first vitals reading all commit together.
func (s *Service) CreateCase(ctx context.Context, in CreateCaseInput) (*Case, error) {
	if in.TriageLevel < 1 || in.TriageLevel > 5 {
		return nil, fmt.Errorf("triage level must be between 1 and 5")
	}
	if in.ChiefComplaint == "" {
		return nil, fmt.Errorf("chief complaint is required")
	}
	if in.BedID != nil && in.PatientID == nil {
		return nil, fmt.Errorf("bed assignment requires a patient reference")
	}

	c := &Case{
		PatientID:      in.PatientID,
		TriageLevel:    in.TriageLevel,
		ChiefComplaint: in.ChiefComplaint,
		Diagnosis:      in.Diagnosis,
		Notes:          in.Notes,
		DoctorID:       in.DoctorID,
		Status:         StatusAdmitted,
	}

	err := s.tx(ctx, func(ctx context.Context) error {
		if in.PatientID != nil {
			p, err := s.patients.ResolvePatient(ctx, *in.PatientID)
			if err != nil {
				return err
			}
			name := p.FullName()
			c.PatientName = &name
			c.PatientAge = p.Age(time.Now())
		}
		if in.DoctorID != nil {
			d, err := s.staff.ResolveDoctor(ctx, *in.DoctorID)
			if err != nil {
				return err
			}
			c.DoctorName = &d.DisplayName
		}
		if in.BedID != nil {
			b, err := s.beds.AssignPatient(ctx, *in.BedID, *in.PatientID, in.Diagnosis)
			if err != nil {
				return err
			}
			c.BedID = &b.ID
			c.BedNumber = &b.Number
		}
		if err := s.repo.Create(ctx, c); err != nil {
			return err
		}
		if in.VitalSigns != nil && !in.VitalSigns.Empty() {
			if _, err := s.clinical.RecordVitalSign(ctx, c.ID, *in.VitalSigns, nil); err != nil {
				return err
			}
			c.VitalSigns = in.VitalSigns
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

type UpdateCaseInput struct {
	TriageLevel    *int
	ChiefComplaint *string
	Diagnosis      *string
	Notes          *string
	DoctorID       *uuid.UUID
	BedID          *uuid.UUID
	VitalSigns     *clinical.VitalSigns
}

// UpdateCase applies a partial update. A bed change occupies the new bed
// before releasing the old one: if the new bed is taken the case keeps the
// bed it had.
func (s *Service) UpdateCase(ctx context.Context, id uuid.UUID, in UpdateCaseInput) (*Case, error) {
	if in.TriageLevel != nil && (*in.TriageLevel < 1 || *in.TriageLevel > 5) {
		return nil, fmt.Errorf("triage level must be between 1 and 5")
	}

	var c *Case
	err := s.tx(ctx, func(ctx context.Context) error {
		var err error
		c, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !c.Active() {
			return ErrAlreadyDischarged
		}

		if in.TriageLevel != nil {
			c.TriageLevel = *in.TriageLevel
		}
		if in.ChiefComplaint != nil {
			c.ChiefComplaint = *in.ChiefComplaint
		}
		if in.Diagnosis != nil {
			c.Diagnosis = in.Diagnosis
		}
		if in.Notes != nil {
			c.Notes = in.Notes
		}
		if in.DoctorID != nil {
			d, err := s.staff.ResolveDoctor(ctx, *in.DoctorID)
			if err != nil {
				return err
			}
			c.DoctorID = in.DoctorID
			c.DoctorName = &d.DisplayName
		}

		bedChanged := in.BedID != nil && (c.BedID == nil || *c.BedID != *in.BedID)
		if bedChanged {
			if c.PatientID == nil {
				return fmt.Errorf("bed assignment requires a patient reference")
			}
			// Occupy first so a taken bed aborts before the old one is freed.
			b, err := s.beds.AssignPatient(ctx, *in.BedID, *c.PatientID, c.Diagnosis)
			if err != nil {
				return err
			}
			if c.BedID != nil {
				if _, err := s.beds.ReleaseBed(ctx, *c.BedID, bed.StatusAvailable, bed.ActionTransferOut); err != nil {
					return err
				}
			}
			c.BedID = &b.ID
			c.BedNumber = &b.Number
		} else if c.BedID != nil && (in.Diagnosis != nil || in.ChiefComplaint != nil) {
			// The occupied bed caches the working diagnosis for the ward
			// board, falling back to the chief complaint until one is made.
			diagnosis := c.Diagnosis
			if diagnosis == nil {
				diagnosis = &c.ChiefComplaint
			}
			if err := s.beds.SetDiagnosis(ctx, *c.BedID, *diagnosis); err != nil {
				return err
			}
		}

		if err := s.repo.Update(ctx, c); err != nil {
			return err
		}
		if in.VitalSigns != nil && !in.VitalSigns.Empty() {
			// Update-through-log: indistinguishable from a dedicated recording.
			if _, err := s.clinical.RecordVitalSign(ctx, c.ID, *in.VitalSigns, nil); err != nil {
				return err
			}
			c.VitalSigns = in.VitalSigns
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// TransferPatient moves the case to another ward. The target bed is occupied
// before the source bed is released; case update, both bed mutations and the
// continuity record commit together.
func (s *Service) TransferPatient(ctx context.Context, id uuid.UUID, targetWard string, targetBedID *uuid.UUID, notes *string) (*Case, error) {
	if targetWard == "" {
		return nil, fmt.Errorf("target ward is required")
	}

	var c *Case
	err := s.tx(ctx, func(ctx context.Context) error {
		var err error
		c, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !c.Active() {
			return ErrAlreadyDischarged
		}

		note := fmt.Sprintf("Transferred to %s", targetWard)
		if notes != nil && *notes != "" {
			note = *notes
		}

		sourceBed := c.BedID
		// A replayed transfer already holds the target bed; releasing it
		// would free the bed the case still claims.
		bedChanged := sourceBed == nil || targetBedID == nil || *sourceBed != *targetBedID
		if bedChanged {
			if targetBedID != nil {
				if c.PatientID == nil {
					return fmt.Errorf("bed assignment requires a patient reference")
				}
				diagnosis := c.Diagnosis
				if diagnosis == nil {
					diagnosis = &c.ChiefComplaint
				}
				b, err := s.beds.OccupyForTransfer(ctx, *targetBedID, *c.PatientID, diagnosis)
				if err != nil {
					return err
				}
				c.BedID = &b.ID
				c.BedNumber = &b.Number
			} else {
				c.BedID = nil
				c.BedNumber = nil
			}
			if sourceBed != nil {
				if _, err := s.beds.ReleaseBed(ctx, *sourceBed, bed.StatusAvailable, bed.ActionTransferOut); err != nil {
					return err
				}
			}
		}

		c.Status = StatusObservation
		c.Notes = appendNote(c.Notes, note)
		if err := s.repo.Update(ctx, c); err != nil {
			return err
		}

		if c.PatientID != nil && c.DoctorID != nil {
			p := &clinical.Procedure{
				Name:        "TRANSFER TO " + strings.ToUpper(targetWard),
				Description: &note,
				PerformedBy: c.DoctorName,
			}
			if _, err := s.clinical.RecordProcedure(ctx, c.ID, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DischargeCase closes the encounter and frees its bed. A repeat call
// reports ErrAlreadyDischarged instead of releasing the bed twice.
func (s *Service) DischargeCase(ctx context.Context, id uuid.UUID) (*Case, error) {
	var c *Case
	err := s.tx(ctx, func(ctx context.Context) error {
		var err error
		c, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !c.Active() {
			return ErrAlreadyDischarged
		}

		if c.BedID != nil {
			if _, err := s.beds.ReleaseBed(ctx, *c.BedID, bed.StatusAvailable, bed.ActionDischarge); err != nil {
				return err
			}
			c.BedID = nil
			c.BedNumber = nil
		}
		now := time.Now()
		c.Status = StatusDischarged
		c.DischargedAt = &now
		return s.repo.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) GetCase(ctx context.Context, id uuid.UUID) (*Case, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListCases(ctx context.Context, status Status, limit, offset int) ([]*Case, int, error) {
	return s.repo.List(ctx, status, limit, offset)
}

// CriticalCases lists active cases by priority: triage level 1 first.
// Equal levels keep admission order.
func (s *Service) CriticalCases(ctx context.Context, limit int) ([]*Case, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListCritical(ctx, limit)
}

func appendNote(existing *string, note string) *string {
	if existing == nil || *existing == "" {
		return &note
	}
	joined := *existing + "\n" + note
	return &joined
}
