package pharmacy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// Bridge converts a committed medication administration into a PENDING
// dispense order. Every outcome short of an order is a silent skip: the
// clinician's record never depends on the pharmacy side being reachable.
// Inventory access runs through a circuit breaker so a flapping collaborator
// is short-circuited instead of slowing every recording down.
type Bridge struct {
	inventory Inventory
	cases     CaseResolver
	breaker   *gobreaker.CircuitBreaker
	log       zerolog.Logger
}

func NewBridge(inventory Inventory, cases CaseResolver, log zerolog.Logger) *Bridge {
	b := &Bridge{inventory: inventory, cases: cases, log: log}
	b.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "pharmacy-inventory",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("pharmacy breaker state change")
		},
	})
	return b
}

// MedicationToOrder resolves the case parties and the medication, then
// creates a unit dispense order. Failures are logged, never returned.
func (b *Bridge) MedicationToOrder(ctx context.Context, caseID uuid.UUID, medicationID *uuid.UUID, name string) {
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, b.bridge(ctx, caseID, medicationID, name)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			b.log.Warn().
				Str("case_id", caseID.String()).
				Str("medication", name).
				Msg("pharmacy breaker open, order skipped")
			return
		}
		b.log.Warn().Err(err).
			Str("case_id", caseID.String()).
			Str("medication", name).
			Msg("pharmacy order bridge failed")
	}
}

func (b *Bridge) bridge(ctx context.Context, caseID uuid.UUID, medicationID *uuid.UUID, name string) error {
	parties, err := b.cases.ResolveCaseParties(ctx, caseID)
	if err != nil {
		return fmt.Errorf("resolve case: %w", err)
	}
	if parties.PatientID == nil || parties.DoctorID == nil {
		// Without both references the order would be neither billable nor
		// trackable. Not an error.
		b.log.Debug().
			Str("case_id", caseID.String()).
			Msg("case has no patient or doctor, order skipped")
		return nil
	}

	med, err := b.inventory.FindMedication(ctx, medicationID, name)
	if err != nil {
		if errors.Is(err, ErrMedicationNotFound) {
			b.log.Warn().
				Str("case_id", caseID.String()).
				Str("medication", name).
				Msg("medication not in inventory, order skipped")
			return nil
		}
		return fmt.Errorf("find medication: %w", err)
	}

	o := &Order{
		MedicationID:    med.ID,
		Quantity:        1,
		DoctorID:        *parties.DoctorID,
		PatientID:       *parties.PatientID,
		EmergencyCaseID: &caseID,
		Status:          OrderStatusPending,
	}
	if err := b.inventory.CreateOrder(ctx, o); err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	b.log.Info().
		Str("case_id", caseID.String()).
		Str("order_number", o.OrderNumber).
		Str("medication", med.Name).
		Msg("pharmacy order created")
	return nil
}
