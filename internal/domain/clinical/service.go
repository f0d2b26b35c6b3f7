package clinical

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edops/edops/internal/platform/db"
)

type Service struct {
	repo   Repository
	cases  Cases
	bridge PharmacyBridge
	tx     db.TxRunner
	log    zerolog.Logger
}

func NewService(repo Repository, cases Cases, bridge PharmacyBridge, tx db.TxRunner, log zerolog.Logger) *Service {
	return &Service{repo: repo, cases: cases, bridge: bridge, tx: tx, log: log}
}

// RecordVitalSign appends a reading and refreshes the case's cached snapshot
// in the same transaction. Partial readings are valid; a fully empty one is
// not.
func (s *Service) RecordVitalSign(ctx context.Context, caseID uuid.UUID, reading VitalSigns, performedBy *string) (*VitalSign, error) {
	if reading.Empty() {
		return nil, fmt.Errorf("at least one vital sign value is required")
	}

	v := &VitalSign{
		EmergencyCaseID:  caseID,
		HeartRate:        reading.HeartRate,
		BloodPressure:    reading.BloodPressure,
		Temperature:      reading.Temperature,
		OxygenSaturation: reading.OxygenSaturation,
		RespiratoryRate:  reading.RespiratoryRate,
		PerformedBy:      performedBy,
	}
	err := s.tx(ctx, func(ctx context.Context) error {
		if err := s.cases.CaseExists(ctx, caseID); err != nil {
			return err
		}
		if err := s.repo.CreateVitalSign(ctx, v); err != nil {
			return err
		}
		return s.cases.SetVitalsSnapshot(ctx, caseID, v.Snapshot())
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// RecordMedication writes the clinical entry first, then hands the committed
// administration to the pharmacy bridge. The bridge runs outside the write
// and cannot fail the recording.
func (s *Service) RecordMedication(ctx context.Context, caseID uuid.UUID, m *MedicationAdministration) (*MedicationAdministration, error) {
	if m.Name == "" || m.Dosage == "" || m.Route == "" {
		return nil, fmt.Errorf("name, dosage and route are required")
	}
	m.EmergencyCaseID = caseID

	err := s.tx(ctx, func(ctx context.Context) error {
		if err := s.cases.CaseExists(ctx, caseID); err != nil {
			return err
		}
		return s.repo.CreateMedication(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	if s.bridge != nil {
		s.log.Debug().
			Str("case_id", caseID.String()).
			Str("medication", m.Name).
			Msg("handing administration to pharmacy bridge")
		s.bridge.MedicationToOrder(ctx, caseID, m.MedicationID, m.Name)
	}
	return m, nil
}

func (s *Service) RecordProcedure(ctx context.Context, caseID uuid.UUID, p *Procedure) (*Procedure, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("procedure name is required")
	}
	p.EmergencyCaseID = caseID

	err := s.tx(ctx, func(ctx context.Context) error {
		if err := s.cases.CaseExists(ctx, caseID); err != nil {
			return err
		}
		return s.repo.CreateProcedure(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) RecordAttachment(ctx context.Context, caseID uuid.UUID, a *Attachment) (*Attachment, error) {
	if a.Title == "" || a.URL == "" || a.Type == "" {
		return nil, fmt.Errorf("title, url and type are required")
	}
	a.EmergencyCaseID = caseID

	err := s.tx(ctx, func(ctx context.Context) error {
		if err := s.cases.CaseExists(ctx, caseID); err != nil {
			return err
		}
		return s.repo.CreateAttachment(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) RenameAttachment(ctx context.Context, id uuid.UUID, title string) (*Attachment, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	return s.repo.RenameAttachment(ctx, id, title)
}

func (s *Service) DeleteAttachment(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAttachment(ctx, id)
}

func (s *Service) ListVitalSigns(ctx context.Context, caseID uuid.UUID, limit, offset int) ([]*VitalSign, int, error) {
	return s.repo.ListVitalSigns(ctx, caseID, limit, offset)
}

func (s *Service) ListMedications(ctx context.Context, caseID uuid.UUID, limit, offset int) ([]*MedicationAdministration, int, error) {
	return s.repo.ListMedications(ctx, caseID, limit, offset)
}

func (s *Service) ListProcedures(ctx context.Context, caseID uuid.UUID, limit, offset int) ([]*Procedure, int, error) {
	return s.repo.ListProcedures(ctx, caseID, limit, offset)
}

func (s *Service) ListAttachments(ctx context.Context, caseID uuid.UUID, limit, offset int) ([]*Attachment, int, error) {
	return s.repo.ListAttachments(ctx, caseID, limit, offset)
}
