package patient

import (
	"errors"
	"fmt"
	"time"

	"github.com/healthque/api/pkg/dates"
)

// ErrNotFound is returned when a patient does not exist.
var ErrNotFound = errors.New("patient not found")

// ValidationError reports a rejected write before it reaches the store.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// Patient maps to the patients table.
type Patient struct {
	ID          int64       `db:"id" json:"id"`
	FirstName   string      `db:"first_name" json:"first_name"`
	LastName    string      `db:"last_name" json:"last_name"`
	Email       *string     `db:"email" json:"email,omitempty"`
	Phone       *string     `db:"phone" json:"phone,omitempty"`
	DateOfBirth *dates.Date `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender      *string     `db:"gender" json:"gender,omitempty"`
	Address     *string     `db:"address" json:"address,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}
