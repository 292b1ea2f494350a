package clinic

import "context"

// ScheduleRepository is the store for per-doctor operating-hours documents.
// Each doctor has at most one document; Put replaces it in place.
type ScheduleRepository interface {
	// GetByDoctor returns (nil, nil) when the doctor has no document.
	GetByDoctor(ctx context.Context, doctorID int64) (*Schedule, error)
	Put(ctx context.Context, s *Schedule) error
	Delete(ctx context.Context, doctorID int64) error
}
