// Package directory exposes read-only lookups against the suite's patient
// and practitioner records. The emergency lifecycle snapshots display fields
// from here at the point of reference change.
package directory

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrPractitionerNotFound = errors.New("practitioner not found")
)

type Patient struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	FirstName   string     `db:"first_name" json:"firstName"`
	LastName    string     `db:"last_name" json:"lastName"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"dateOfBirth,omitempty"`
}

// FullName is the display form used for case snapshots.
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Age returns full years at the reference time, or nil when the date of
// birth is unknown.
func (p *Patient) Age(at time.Time) *int {
	if p.DateOfBirth == nil {
		return nil
	}
	dob := *p.DateOfBirth
	years := at.Year() - dob.Year()
	if at.Month() < dob.Month() || (at.Month() == dob.Month() && at.Day() < dob.Day()) {
		years--
	}
	if years < 0 {
		years = 0
	}
	return &years
}

type Practitioner struct {
	ID          uuid.UUID `db:"id" json:"id"`
	DisplayName string    `db:"display_name" json:"displayName"`
	Specialty   *string   `db:"specialty" json:"specialty,omitempty"`
}
