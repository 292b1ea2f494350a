package appointment

import (
	"context"
	"fmt"
	"regexp"

	"github.com/healthque/api/pkg/dates"
)

// AvailabilityChecker answers whether a doctor is off on a date. The
// availability service satisfies it.
type AvailabilityChecker interface {
	IsOff(ctx context.Context, doctorID int64, day dates.Date) (bool, error)
}

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type Service struct {
	repo         AppointmentRepository
	availability AvailabilityChecker
}

func NewService(repo AppointmentRepository, availability AvailabilityChecker) *Service {
	return &Service{repo: repo, availability: availability}
}

func (s *Service) validate(a *Appointment) error {
	if a.DoctorID <= 0 {
		return &ValidationError{Field: "doctor_id", Msg: "must be a positive id"}
	}
	if a.PatientID <= 0 {
		return &ValidationError{Field: "patient_id", Msg: "must be a positive id"}
	}
	if a.Date.IsZero() {
		return &ValidationError{Field: "date", Msg: "required"}
	}
	if !timePattern.MatchString(a.StartTime) {
		return &ValidationError{Field: "start_time", Msg: "must be HH:MM"}
	}
	if !timePattern.MatchString(a.EndTime) {
		return &ValidationError{Field: "end_time", Msg: "must be HH:MM"}
	}
	if a.EndTime <= a.StartTime {
		return &ValidationError{Field: "end_time", Msg: "must be after start_time"}
	}
	if a.Status == "" {
		a.Status = StatusBooked
	}
	if !a.Status.Valid() {
		return &ValidationError{Field: "status", Msg: "unknown status"}
	}
	return nil
}

// Book validates the appointment and refuses dates the doctor is off.
func (s *Service) Book(ctx context.Context, a *Appointment) error {
	if err := s.validate(a); err != nil {
		return err
	}
	off, err := s.availability.IsOff(ctx, a.DoctorID, a.Date)
	if err != nil {
		return fmt.Errorf("check doctor %d availability: %w", a.DoctorID, err)
	}
	if off {
		return ErrDoctorOff
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id int64) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// Reschedule moves or edits an appointment, re-checking availability when the
// date changes.
func (s *Service) Reschedule(ctx context.Context, a *Appointment) error {
	if err := s.validate(a); err != nil {
		return err
	}
	current, err := s.repo.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNotFound
	}
	if a.Date != current.Date {
		off, err := s.availability.IsOff(ctx, a.DoctorID, a.Date)
		if err != nil {
			return fmt.Errorf("check doctor %d availability: %w", a.DoctorID, err)
		}
		if off {
			return ErrDoctorOff
		}
	}
	return s.repo.Update(ctx, a)
}

func (s *Service) SetStatus(ctx context.Context, id int64, status Status) (*Appointment, error) {
	if !status.Valid() {
		return nil, &ValidationError{Field: "status", Msg: "unknown status"}
	}
	a, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *Service) Cancel(ctx context.Context, id int64) (*Appointment, error) {
	return s.SetStatus(ctx, id, StatusCancelled)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Appointment, int, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, &ValidationError{Field: "status", Msg: "unknown status"}
	}
	return s.repo.List(ctx, f, limit, offset)
}
