// Package student is the record-management collaborator of the access-control
// core. The core treats these records as opaque; only the repository contract
// and the record shape live here.
package student

import (
	"time"

	"github.com/LithiumValproate/Freshman-3rd/core"
)

// Statuses
const (
	StatusEnrolled  = "enrolled"
	StatusSuspended = "suspended"
	StatusGraduated = "graduated"
)

type (
	Date struct {
		Year  int `json:"year"`
		Month int `json:"month"`
		Day   int `json:"day"`
	}

	Address struct {
		Province string `json:"province"`
		City     string `json:"city"`
	}

	Contact struct {
		Phone string `json:"phone"`
		Email string `json:"email"`
	}

	FamilyMember struct {
		Name         string  `json:"name"`
		Relationship string  `json:"relationship"`
		Contact      Contact `json:"contact"`
	}

	// Student uses typed optional fields; absent sub-records stay nil
	// instead of being patched with ad-hoc defaults at render sites.
	Student struct {
		ID            int64          `json:"id"`
		Name          string         `json:"name" validate:"notblank"`
		Sex           string         `json:"sex"`
		Birthdate     *Date          `json:"birthdate,omitempty"`
		AdmissionYear int            `json:"admission_year"`
		Major         string         `json:"major"`
		ClassID       int            `json:"class_id"`
		Status        string         `json:"status"`
		Address       *Address       `json:"address,omitempty"`
		Contact       *Contact       `json:"contact,omitempty"`
		Family        []FamilyMember `json:"family,omitempty"`
		UpdatedAt     time.Time      `json:"updated_at"`
	}
)

// Normalize is applied once at the boundary, on read from persistence or the
// bridge. Downstream code relies on its output and adds no fallbacks of its
// own.
func (s *Student) Normalize() {
	s.Name = core.CleanString(s.Name)
	s.Major = core.CleanString(s.Major)
	if s.Status == "" {
		s.Status = StatusEnrolled
	}
	if s.AdmissionYear == 0 {
		s.AdmissionYear = time.Now().Year()
	}
}
