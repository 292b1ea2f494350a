package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/healthque/api/pkg/dates"
)

// ByDateAction is the verb of a by-date request.
type ByDateAction string

const (
	ActionSet   ByDateAction = "set"
	ActionUnset ByDateAction = "unset"
)

// ByDateResult carries the records touched by a by-date request. Warnings
// surface side effects the caller should know about, such as a multi-day
// range flipped to working by an unset of a single date.
type ByDateResult struct {
	Records  []*OffDay `json:"records"`
	Warnings []string  `json:"warnings,omitempty"`
}

// DayAvailability is the resolved view of one calendar date.
type DayAvailability struct {
	Date    dates.Date `json:"date"`
	Off     bool       `json:"off"`
	Records []*OffDay  `json:"records"`
}

type Service struct {
	repo OffDayRepository
}

func NewService(repo OffDayRepository) *Service {
	return &Service{repo: repo}
}

// ListOffDays returns the raw records relevant to the filter window.
func (s *Service) ListOffDays(ctx context.Context, doctorID int64, f Filter) ([]*OffDay, error) {
	if doctorID <= 0 {
		return nil, &ValidationError{Field: "doctor_id", Msg: "must be a positive id"}
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, &ValidationError{Field: "to", Msg: "must not be before from"}
	}
	if f.Type != "" && !f.Type.Valid() {
		return nil, &ValidationError{Field: "type", Msg: fmt.Sprintf("must be %q or %q", TypeScheduled, TypeEmergency)}
	}
	return s.repo.ListForDoctor(ctx, doctorID, f)
}

// AddOffDay validates and upserts a record. Writing the same logical record
// twice converges on one row rather than producing duplicates.
func (s *Service) AddOffDay(ctx context.Context, o *OffDay) error {
	if o.IsRecurringWeekly && o.StartDate.IsZero() {
		// Recurring records ignore the range but the column is NOT NULL;
		// record when the rule was established.
		o.StartDate = dates.FromTime(time.Now())
	}
	if err := o.Validate(); err != nil {
		return err
	}
	return s.repo.Upsert(ctx, o)
}

// Resolve computes, for each requested date, the off records whose rule
// applies to it. A working record applying to a date overrides every off
// signal and yields an empty set for that date. Overlapping off records all
// surface; the resolver never collapses duplicates.
func (s *Service) Resolve(ctx context.Context, doctorID int64, days []dates.Date) (map[dates.Date][]*OffDay, error) {
	result := make(map[dates.Date][]*OffDay, len(days))
	if len(days) == 0 {
		return result, nil
	}

	from := dates.Min(days...)
	to := dates.Max(days...)
	records, err := s.repo.ListForDoctor(ctx, doctorID, Filter{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("resolve availability for doctor %d: %w", doctorID, err)
	}

	for _, day := range days {
		var offs []*OffDay
		overridden := false
		for _, rec := range records {
			if !rec.AppliesTo(day) {
				continue
			}
			switch rec.Status {
			case StatusWorking:
				overridden = true
			case StatusOff:
				offs = append(offs, rec)
			}
		}
		if overridden {
			result[day] = nil
			continue
		}
		result[day] = offs
	}
	return result, nil
}

// ResolveRange resolves every date from from through to and returns the days
// in calendar order.
func (s *Service) ResolveRange(ctx context.Context, doctorID int64, from, to dates.Date) ([]DayAvailability, error) {
	if to.Before(from) {
		return nil, &ValidationError{Field: "to", Msg: "must not be before from"}
	}
	days := dates.Range(from, to)
	resolved, err := s.Resolve(ctx, doctorID, days)
	if err != nil {
		return nil, err
	}
	out := make([]DayAvailability, 0, len(days))
	for _, day := range days {
		recs := resolved[day]
		out = append(out, DayAvailability{Date: day, Off: len(recs) > 0, Records: recs})
	}
	return out, nil
}

// IsOff reports whether the doctor is off on the given date.
func (s *Service) IsOff(ctx context.Context, doctorID int64, day dates.Date) (bool, error) {
	resolved, err := s.Resolve(ctx, doctorID, []dates.Date{day})
	if err != nil {
		return false, err
	}
	return len(resolved[day]) > 0, nil
}

// SetByDate marks a single date off, or clears every off signal on it.
//
// set: upserts a one-day ranged off record for the date.
//
// unset: for each off record applying to the date, a recurring record gets a
// synthesized one-day working override (the recurring rule itself is never
// touched, so other weeks stay off), while a ranged record is flipped to
// working in place. Flipping a multi-day range clears the whole range; that
// is reported as a warning. Per-record failures are joined and returned
// together with the records that did succeed.
func (s *Service) SetByDate(ctx context.Context, doctorID int64, day dates.Date, action ByDateAction, t Type, reason *string) (*ByDateResult, error) {
	if doctorID <= 0 {
		return nil, &ValidationError{Field: "doctor_id", Msg: "must be a positive id"}
	}
	if day.IsZero() {
		return nil, &ValidationError{Field: "date", Msg: "required"}
	}

	switch action {
	case ActionSet:
		end := day
		o := &OffDay{
			DoctorID:  doctorID,
			StartDate: day,
			EndDate:   &end,
			Type:      t,
			Reason:    reason,
			Status:    StatusOff,
		}
		if err := o.Validate(); err != nil {
			return nil, err
		}
		if err := s.repo.Upsert(ctx, o); err != nil {
			return nil, err
		}
		return &ByDateResult{Records: []*OffDay{o}}, nil

	case ActionUnset:
		records, err := s.repo.ListForDoctor(ctx, doctorID, Filter{From: &day, To: &day})
		if err != nil {
			return nil, fmt.Errorf("unset %s for doctor %d: %w", day, doctorID, err)
		}

		result := &ByDateResult{}
		var errs []error
		for _, rec := range records {
			if rec.Status != StatusOff || !rec.AppliesTo(day) {
				continue
			}
			if rec.IsRecurringWeekly {
				end := day
				override := &OffDay{
					DoctorID:  doctorID,
					StartDate: day,
					EndDate:   &end,
					Type:      rec.Type,
					Reason:    rec.Reason,
					Status:    StatusWorking,
				}
				if err := s.repo.Upsert(ctx, override); err != nil {
					errs = append(errs, fmt.Errorf("override recurring record %d: %w", rec.ID, err))
					continue
				}
				result.Records = append(result.Records, override)
				continue
			}

			updated, err := s.repo.SetStatus(ctx, rec.ID, StatusWorking)
			if err != nil {
				errs = append(errs, fmt.Errorf("flip record %d: %w", rec.ID, err))
				continue
			}
			if updated == nil {
				errs = append(errs, fmt.Errorf("flip record %d: %w", rec.ID, ErrNotFound))
				continue
			}
			result.Records = append(result.Records, updated)
			if updated.SpansMultipleDays() {
				result.Warnings = append(result.Warnings, fmt.Sprintf(
					"record %d covers %s through %s; the whole range is now working",
					updated.ID, updated.StartDate, updated.EndDate))
			}
		}
		return result, errors.Join(errs...)

	default:
		return nil, &ValidationError{Field: "action", Msg: fmt.Sprintf("must be %q or %q", ActionSet, ActionUnset)}
	}
}

// ToggleStatus sets a record's status, or flips it when desired is nil.
func (s *Service) ToggleStatus(ctx context.Context, id int64, desired *Status) (*OffDay, error) {
	if desired != nil && !desired.Valid() {
		return nil, &ValidationError{Field: "status", Msg: fmt.Sprintf("must be %q or %q", StatusOff, StatusWorking)}
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}

	next := StatusOff
	if desired != nil {
		next = *desired
	} else if rec.Status == StatusOff {
		next = StatusWorking
	}

	updated, err := s.repo.SetStatus(ctx, id, next)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// GetOffDay returns a record by id, or ErrNotFound.
func (s *Service) GetOffDay(ctx context.Context, id int64) (*OffDay, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

// SoftRemove clears a record by flipping it to working. Records are never
// hard-deleted, so history stays queryable.
func (s *Service) SoftRemove(ctx context.Context, id int64) (*OffDay, error) {
	working := StatusWorking
	return s.ToggleStatus(ctx, id, &working)
}
