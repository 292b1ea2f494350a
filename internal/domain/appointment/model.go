package appointment

import (
	"errors"
	"fmt"
	"time"

	"github.com/healthque/api/pkg/dates"
)

// ErrNotFound is returned when an appointment does not exist.
var ErrNotFound = errors.New("appointment not found")

// ErrDoctorOff rejects a booking on a date the doctor is off.
var ErrDoctorOff = errors.New("doctor is not available on that date")

// ValidationError reports a rejected write before it reaches the store.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusBooked    Status = "booked"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusBooked, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Appointment maps to the appointments table.
type Appointment struct {
	ID        int64      `db:"id" json:"id"`
	DoctorID  int64      `db:"doctor_id" json:"doctor_id"`
	PatientID int64      `db:"patient_id" json:"patient_id"`
	Date      dates.Date `db:"date" json:"date"`
	StartTime string     `db:"start_time" json:"start_time"`
	EndTime   string     `db:"end_time" json:"end_time"`
	Status    Status     `db:"status" json:"status"`
	Notes     *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}
