// Package dashboard serves the read-only ward and case views. It never
// writes; everything here is derived from the owning domains.
package dashboard

import (
	"github.com/edops/edops/internal/domain/bed"
	"github.com/edops/edops/internal/domain/clinical"
	"github.com/edops/edops/internal/domain/emergency"
)

// StatusCount is one (ward, status) bucket from the bed table.
type StatusCount struct {
	Ward   string     `db:"ward"`
	Status bed.Status `db:"status"`
	Count  int        `db:"count"`
}

// WardOccupancy is the per-ward board summary.
type WardOccupancy struct {
	Ward        string `json:"ward"`
	Available   int    `json:"available"`
	Occupied    int    `json:"occupied"`
	Cleaning    int    `json:"cleaning"`
	Maintenance int    `json:"maintenance"`
	Reserved    int    `json:"reserved"`
	Total       int    `json:"total"`
}

// CaseDetail joins a case with its full clinical history.
type CaseDetail struct {
	Case        *emergency.Case                      `json:"case"`
	VitalSigns  []*clinical.VitalSign                `json:"vitalSigns"`
	Medications []*clinical.MedicationAdministration `json:"medications"`
	Procedures  []*clinical.Procedure                `json:"procedures"`
	Attachments []*clinical.Attachment               `json:"attachments"`
}
