package doctor

import "context"

// ListFilter narrows a directory listing. Name matches name case-insensitively
// as a substring; Specialty and Location match exactly. Sort must be one of
// the whitelisted columns.
type ListFilter struct {
	Name       string
	Specialty  string
	Location   string
	ActiveOnly bool
	Sort       string
}

// DoctorRepository is the store for the doctor directory.
type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	// GetByID returns (nil, nil) when no doctor has the id.
	GetByID(ctx context.Context, id int64) (*Doctor, error)
	// GetByUserID resolves the doctor owned by an auth subject, (nil, nil)
	// when the subject owns none.
	GetByUserID(ctx context.Context, userID string) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	SetActive(ctx context.Context, id int64, active bool) (*Doctor, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Doctor, int, error)
}
