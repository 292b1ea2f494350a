package appointment

import (
	"context"

	"github.com/healthque/api/pkg/dates"
)

// ListFilter narrows an appointment listing.
type ListFilter struct {
	DoctorID  int64
	PatientID int64
	Status    Status
	Date      *dates.Date
}

// AppointmentRepository is the store for appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	// GetByID returns (nil, nil) when no appointment has the id.
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	// SetStatus returns the updated appointment, (nil, nil) on a missing id.
	SetStatus(ctx context.Context, id int64, status Status) (*Appointment, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Appointment, int, error)
}
