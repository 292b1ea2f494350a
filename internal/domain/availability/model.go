package availability

import (
	"errors"
	"fmt"
	"time"

	"github.com/healthque/api/pkg/dates"
)

// ErrNotFound is returned when an off-day record does not exist.
var ErrNotFound = errors.New("off-day record not found")

// ValidationError reports a rejected write before it reaches the store.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// Status tells whether a record marks the doctor as off or as working.
// A working record on a date overrides every off signal for that date.
type Status string

const (
	StatusOff     Status = "off"
	StatusWorking Status = "working"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusOff || s == StatusWorking
}

// Type classifies an off-day record.
type Type string

const (
	TypeScheduled Type = "scheduled"
	TypeEmergency Type = "emergency"
)

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	return t == TypeScheduled || t == TypeEmergency
}

// OffDay maps to the doctor_off_days table. A record is one of two variants:
// recurring-weekly (DayOfWeek set, date range ignored) or ranged (StartDate
// with optional EndDate, DayOfWeek ignored). Records are never hard-deleted;
// removal flips Status to working.
type OffDay struct {
	ID                int64       `db:"id" json:"id"`
	DoctorID          int64       `db:"doctor_id" json:"doctor_id"`
	StartDate         dates.Date  `db:"start_date" json:"start_date"`
	EndDate           *dates.Date `db:"end_date" json:"end_date,omitempty"`
	IsRecurringWeekly bool        `db:"is_recurring_weekly" json:"is_recurring_weekly"`
	DayOfWeek         *int        `db:"day_of_week" json:"day_of_week,omitempty"`
	Type              Type        `db:"type" json:"type"`
	Reason            *string     `db:"reason" json:"reason,omitempty"`
	Status            Status      `db:"status" json:"status"`
	CreatedAt         time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time   `db:"updated_at" json:"updated_at"`
}

// Rule decides whether a record speaks for a given calendar date.
type Rule interface {
	AppliesTo(d dates.Date) bool
}

// RecurringRule applies to every date falling on its weekday (Sunday = 0).
type RecurringRule struct {
	Weekday int
}

func (r RecurringRule) AppliesTo(d dates.Date) bool {
	return int(d.Weekday()) == r.Weekday
}

// RangedRule applies to every date in [Start, End] inclusive. A record with
// no end date covers only its start date.
type RangedRule struct {
	Start dates.Date
	End   dates.Date
}

func (r RangedRule) AppliesTo(d dates.Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Rule returns the variant-appropriate rule for the record.
func (o *OffDay) Rule() Rule {
	if o.IsRecurringWeekly {
		wd := 0
		if o.DayOfWeek != nil {
			wd = *o.DayOfWeek
		}
		return RecurringRule{Weekday: wd}
	}
	end := o.StartDate
	if o.EndDate != nil {
		end = *o.EndDate
	}
	return RangedRule{Start: o.StartDate, End: end}
}

// AppliesTo reports whether the record speaks for the given date.
func (o *OffDay) AppliesTo(d dates.Date) bool {
	return o.Rule().AppliesTo(d)
}

// SpansMultipleDays reports whether a ranged record covers more than one
// date. Recurring records never span.
func (o *OffDay) SpansMultipleDays() bool {
	if o.IsRecurringWeekly || o.EndDate == nil {
		return false
	}
	return o.EndDate.After(o.StartDate)
}

// Validate checks the record's variant fields before it is written.
func (o *OffDay) Validate() error {
	if o.DoctorID <= 0 {
		return &ValidationError{Field: "doctor_id", Msg: "must be a positive id"}
	}
	if o.Status == "" {
		o.Status = StatusOff
	}
	if !o.Status.Valid() {
		return &ValidationError{Field: "status", Msg: fmt.Sprintf("must be %q or %q", StatusOff, StatusWorking)}
	}
	if o.Type == "" {
		o.Type = TypeScheduled
	}
	if !o.Type.Valid() {
		return &ValidationError{Field: "type", Msg: fmt.Sprintf("must be %q or %q", TypeScheduled, TypeEmergency)}
	}

	if o.IsRecurringWeekly {
		if o.DayOfWeek == nil {
			return &ValidationError{Field: "day_of_week", Msg: "required for recurring records"}
		}
		if *o.DayOfWeek < 0 || *o.DayOfWeek > 6 {
			return &ValidationError{Field: "day_of_week", Msg: "must be between 0 (Sunday) and 6 (Saturday)"}
		}
		// Range fields have no meaning on the recurring variant.
		o.EndDate = nil
		return nil
	}

	if o.StartDate.IsZero() {
		return &ValidationError{Field: "start_date", Msg: "required for non-recurring records"}
	}
	if o.EndDate != nil && o.EndDate.Before(o.StartDate) {
		return &ValidationError{Field: "end_date", Msg: "must not be before start_date"}
	}
	o.DayOfWeek = nil
	return nil
}
