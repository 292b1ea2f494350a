package patient

import "context"

// ListFilter narrows a patient listing. Name matches first or last name
// case-insensitively as a substring; Email matches exactly.
type ListFilter struct {
	Name  string
	Email string
}

// PatientRepository is the store for patient records.
type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	// GetByID returns (nil, nil) when no patient has the id.
	GetByID(ctx context.Context, id int64) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Patient, int, error)
}
