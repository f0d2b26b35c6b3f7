package dashboard

import (
	"context"

	"github.com/google/uuid"

	"github.com/edops/edops/internal/domain/bed"
	"github.com/edops/edops/internal/domain/clinical"
	"github.com/edops/edops/internal/domain/emergency"
)

const historyPageSize = 500

// CaseReader is the slice of the case lifecycle the dashboard reads.
type CaseReader interface {
	GetCase(ctx context.Context, id uuid.UUID) (*emergency.Case, error)
	CriticalCases(ctx context.Context, limit int) ([]*emergency.Case, error)
}

// ActivityReader is the slice of the bed registry the dashboard reads.
type ActivityReader interface {
	ActivityHistory(ctx context.Context, bedID uuid.UUID, limit int) ([]*bed.Activity, error)
}

// HistoryReader is the slice of the clinical log the dashboard reads.
type HistoryReader interface {
	ListVitalSigns(ctx context.Context, caseID uuid.UUID, limit, offset int) ([]*clinical.VitalSign, int, error)
	ListMedications(ctx context.Context, caseID uuid.UUID, limit, offset int) ([]*clinical.MedicationAdministration, int, error)
	ListProcedures(ctx context.Context, caseID uuid.UUID, limit, offset int) ([]*clinical.Procedure, int, error)
	ListAttachments(ctx context.Context, caseID uuid.UUID, limit, offset int) ([]*clinical.Attachment, int, error)
}

type Service struct {
	occupancy OccupancyRepo
	cases     CaseReader
	beds      ActivityReader
	history   HistoryReader
}

func NewService(occupancy OccupancyRepo, cases CaseReader, beds ActivityReader, history HistoryReader) *Service {
	return &Service{occupancy: occupancy, cases: cases, beds: beds, history: history}
}

// WardOccupancy folds the raw status buckets into one summary per ward.
func (s *Service) WardOccupancy(ctx context.Context) ([]*WardOccupancy, error) {
	counts, err := s.occupancy.BedStatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	byWard := make(map[string]*WardOccupancy)
	var order []string
	for _, sc := range counts {
		w, ok := byWard[sc.Ward]
		if !ok {
			w = &WardOccupancy{Ward: sc.Ward}
			byWard[sc.Ward] = w
			order = append(order, sc.Ward)
		}
		switch sc.Status {
		case bed.StatusAvailable:
			w.Available += sc.Count
		case bed.StatusOccupied:
			w.Occupied += sc.Count
		case bed.StatusCleaning:
			w.Cleaning += sc.Count
		case bed.StatusMaintenance:
			w.Maintenance += sc.Count
		case bed.StatusReserved:
			w.Reserved += sc.Count
		}
		w.Total += sc.Count
	}

	out := make([]*WardOccupancy, 0, len(order))
	for _, ward := range order {
		out = append(out, byWard[ward])
	}
	return out, nil
}

func (s *Service) CriticalCases(ctx context.Context, limit int) ([]*emergency.Case, error) {
	return s.cases.CriticalCases(ctx, limit)
}

// BedActivity returns the most recent entries for one bed, newest first.
func (s *Service) BedActivity(ctx context.Context, bedID uuid.UUID) ([]*bed.Activity, error) {
	return s.beds.ActivityHistory(ctx, bedID, bed.DefaultActivityLimit)
}

// CaseDetail joins the case with its full clinical history.
func (s *Service) CaseDetail(ctx context.Context, id uuid.UUID) (*CaseDetail, error) {
	c, err := s.cases.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &CaseDetail{Case: c}

	if detail.VitalSigns, _, err = s.history.ListVitalSigns(ctx, id, historyPageSize, 0); err != nil {
		return nil, err
	}
	if detail.Medications, _, err = s.history.ListMedications(ctx, id, historyPageSize, 0); err != nil {
		return nil, err
	}
	if detail.Procedures, _, err = s.history.ListProcedures(ctx, id, historyPageSize, 0); err != nil {
		return nil, err
	}
	if detail.Attachments, _, err = s.history.ListAttachments(ctx, id, historyPageSize, 0); err != nil {
		return nil, err
	}
	return detail, nil
}
