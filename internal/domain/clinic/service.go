package clinic

import (
	"context"
	"encoding/json"
)

// maxHoursBytes caps the stored operating-hours document.
const maxHoursBytes = 64 * 1024

type Service struct {
	repo ScheduleRepository
}

func NewService(repo ScheduleRepository) *Service {
	return &Service{repo: repo}
}

// Get returns the operating-hours document for a doctor.
func (s *Service) Get(ctx context.Context, doctorID int64) (*Schedule, error) {
	if doctorID <= 0 {
		return nil, &ValidationError{Field: "doctor_id", Msg: "must be positive"}
	}
	sched, err := s.repo.GetByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if sched == nil {
		return nil, ErrNotFound
	}
	return sched, nil
}

// Put stores or replaces the operating-hours document for a doctor. The
// document must be a JSON object; its inner shape is not inspected.
func (s *Service) Put(ctx context.Context, doctorID int64, hours json.RawMessage) (*Schedule, error) {
	if doctorID <= 0 {
		return nil, &ValidationError{Field: "doctor_id", Msg: "must be positive"}
	}
	if len(hours) == 0 {
		return nil, &ValidationError{Field: "hours", Msg: "is required"}
	}
	if len(hours) > maxHoursBytes {
		return nil, &ValidationError{Field: "hours", Msg: "document too large"}
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(hours, &obj); err != nil {
		return nil, &ValidationError{Field: "hours", Msg: "must be a JSON object"}
	}

	sched := &Schedule{DoctorID: doctorID, Hours: hours}
	if err := s.repo.Put(ctx, sched); err != nil {
		return nil, err
	}
	return sched, nil
}

// Remove deletes a doctor's operating-hours document.
func (s *Service) Remove(ctx context.Context, doctorID int64) error {
	if doctorID <= 0 {
		return &ValidationError{Field: "doctor_id", Msg: "must be positive"}
	}
	return s.repo.Delete(ctx, doctorID)
}
