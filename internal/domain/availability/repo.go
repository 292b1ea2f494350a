package availability

import (
	"context"

	"github.com/healthque/api/pkg/dates"
)

// Filter narrows an off-day listing. From/To bound ranged records by overlap;
// recurring records are always returned because they can apply inside any
// window. Type filters by record type when set.
type Filter struct {
	From *dates.Date
	To   *dates.Date
	Type Type
}

// OffDayRepository is the store for off-day records.
type OffDayRepository interface {
	// ListForDoctor returns the records relevant to the filter window. An
	// empty result is not an error.
	ListForDoctor(ctx context.Context, doctorID int64, f Filter) ([]*OffDay, error)
	// GetByID returns (nil, nil) when no record has the id.
	GetByID(ctx context.Context, id int64) (*OffDay, error)
	// Upsert inserts the record or, when one already exists for the same
	// identity (doctor+weekday for recurring, doctor+start date for ranged),
	// updates it in place. The stored row is written back into o.
	Upsert(ctx context.Context, o *OffDay) error
	// SetStatus updates a record's status and returns the updated record,
	// or (nil, nil) when the id does not exist.
	SetStatus(ctx context.Context, id int64, status Status) (*OffDay, error)
}
