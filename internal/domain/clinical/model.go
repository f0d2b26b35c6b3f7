// Package clinical owns the append-only event trail recorded against an
// emergency case: vital signs, administered medications, performed
// procedures, and attachments.
package clinical

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCaseNotFound       = errors.New("emergency case not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
)

// VitalSigns is the compact snapshot cached on the emergency case. The time
// series is authoritative; this struct is a read optimization only.
type VitalSigns struct {
	HeartRate        *int     `json:"hr,omitempty"`
	BloodPressure    *string  `json:"bp,omitempty"`
	Temperature      *float64 `json:"temp,omitempty"`
	OxygenSaturation *int     `json:"spo2,omitempty"`
	RespiratoryRate  *int     `json:"rr,omitempty"`
}

// Empty reports whether no reading is present at all.
func (v VitalSigns) Empty() bool {
	return v.HeartRate == nil && v.BloodPressure == nil && v.Temperature == nil &&
		v.OxygenSaturation == nil && v.RespiratoryRate == nil
}

type VitalSign struct {
	ID               uuid.UUID `db:"id" json:"id"`
	EmergencyCaseID  uuid.UUID `db:"emergency_case_id" json:"emergencyCaseId"`
	HeartRate        *int      `db:"heart_rate" json:"heartRate,omitempty"`
	BloodPressure    *string   `db:"blood_pressure" json:"bloodPressure,omitempty"`
	Temperature      *float64  `db:"temperature" json:"temperature,omitempty"`
	OxygenSaturation *int      `db:"oxygen_saturation" json:"oxygenSaturation,omitempty"`
	RespiratoryRate  *int      `db:"respiratory_rate" json:"respiratoryRate,omitempty"`
	PerformedBy      *string   `db:"performed_by" json:"performedBy,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
}

// Snapshot projects the entry onto the cached case snapshot shape.
func (v *VitalSign) Snapshot() VitalSigns {
	return VitalSigns{
		HeartRate:        v.HeartRate,
		BloodPressure:    v.BloodPressure,
		Temperature:      v.Temperature,
		OxygenSaturation: v.OxygenSaturation,
		RespiratoryRate:  v.RespiratoryRate,
	}
}

type MedicationAdministration struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	EmergencyCaseID uuid.UUID  `db:"emergency_case_id" json:"emergencyCaseId"`
	Name            string     `db:"name" json:"name"`
	Dosage          string     `db:"dosage" json:"dosage"`
	Route           string     `db:"route" json:"route"`
	AdministeredBy  *string    `db:"administered_by" json:"administeredBy,omitempty"`
	MedicationID    *uuid.UUID `db:"medication_id" json:"medicationId,omitempty"`
	Notes           *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
}

type Procedure struct {
	ID              uuid.UUID `db:"id" json:"id"`
	EmergencyCaseID uuid.UUID `db:"emergency_case_id" json:"emergencyCaseId"`
	Name            string    `db:"name" json:"name"`
	Description     *string   `db:"description" json:"description,omitempty"`
	PerformedBy     *string   `db:"performed_by" json:"performedBy,omitempty"`
	Result          *string   `db:"result" json:"result,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

type Attachment struct {
	ID              uuid.UUID `db:"id" json:"id"`
	EmergencyCaseID uuid.UUID `db:"emergency_case_id" json:"emergencyCaseId"`
	Title           string    `db:"title" json:"title"`
	URL             string    `db:"url" json:"url"`
	Type            string    `db:"attachment_type" json:"type"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}
