package clinic

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a doctor has no stored schedule.
var ErrNotFound = errors.New("clinic schedule not found")

// ValidationError reports a rejected write before it reaches the store.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// Schedule maps to the clinic_schedules table. Hours is an opaque
// operating-hours document the clinic frontend owns; the API stores and
// returns it without interpreting its shape.
type Schedule struct {
	ID        int64           `db:"id" json:"id"`
	DoctorID  int64           `db:"doctor_id" json:"doctor_id"`
	Hours     json.RawMessage `db:"hours" json:"hours"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}
