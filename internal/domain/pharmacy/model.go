// Package pharmacy holds the inventory collaborator surface and the bridge
// that turns a recorded medication administration into a dispense order.
package pharmacy

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrMedicationNotFound = errors.New("medication not found")

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusDispensed OrderStatus = "DISPENSED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Medication is a catalog entry in the pharmacy inventory.
type Medication struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Presentation *string   `db:"presentation" json:"presentation,omitempty"`
	Stock        int       `db:"stock" json:"stock"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Order is a dispense order. Emergency-sourced orders carry an ER-prefixed
// number so they are distinguishable from outpatient prescriptions.
type Order struct {
	ID              uuid.UUID   `db:"id" json:"id"`
	OrderNumber     string      `db:"order_number" json:"orderNumber"`
	MedicationID    uuid.UUID   `db:"medication_id" json:"medicationId"`
	Quantity        int         `db:"quantity" json:"quantity"`
	DoctorID        uuid.UUID   `db:"doctor_id" json:"doctorId"`
	PatientID       uuid.UUID   `db:"patient_id" json:"patientId"`
	EmergencyCaseID *uuid.UUID  `db:"emergency_case_id" json:"emergencyCaseId,omitempty"`
	Status          OrderStatus `db:"status" json:"status"`
	CreatedAt       time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updatedAt"`
}
