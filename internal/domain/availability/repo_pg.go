package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthque/api/internal/platform/db"
	"github.com/healthque/api/pkg/dates"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type offDayRepoPG struct{ pool *pgxpool.Pool }

func NewOffDayRepoPG(pool *pgxpool.Pool) OffDayRepository { return &offDayRepoPG{pool: pool} }

func (r *offDayRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const offDayCols = `id, doctor_id, start_date, end_date, is_recurring_weekly,
	day_of_week, type, reason, status, created_at, updated_at`

func scanOffDay(row pgx.Row) (*OffDay, error) {
	var o OffDay
	var start time.Time
	var end *time.Time
	err := row.Scan(&o.ID, &o.DoctorID, &start, &end, &o.IsRecurringWeekly,
		&o.DayOfWeek, &o.Type, &o.Reason, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.StartDate = dates.FromTime(start)
	if end != nil {
		d := dates.FromTime(*end)
		o.EndDate = &d
	}
	return &o, nil
}

func (r *offDayRepoPG) ListForDoctor(ctx context.Context, doctorID int64, f Filter) ([]*OffDay, error) {
	query := `SELECT ` + offDayCols + ` FROM doctor_off_days WHERE doctor_id = $1`
	args := []interface{}{doctorID}
	idx := 2

	// Ranged records must overlap the window; recurring records can apply
	// inside any window so they always come back.
	if f.From != nil && f.To != nil {
		query += fmt.Sprintf(
			` AND (is_recurring_weekly OR (start_date <= $%d AND COALESCE(end_date, start_date) >= $%d))`,
			idx, idx+1)
		args = append(args, f.To.Time(), f.From.Time())
		idx += 2
	} else if f.From != nil {
		query += fmt.Sprintf(` AND (is_recurring_weekly OR COALESCE(end_date, start_date) >= $%d)`, idx)
		args = append(args, f.From.Time())
		idx++
	} else if f.To != nil {
		query += fmt.Sprintf(` AND (is_recurring_weekly OR start_date <= $%d)`, idx)
		args = append(args, f.To.Time())
		idx++
	}

	if f.Type != "" {
		query += fmt.Sprintf(` AND type = $%d`, idx)
		args = append(args, f.Type)
	}

	query += ` ORDER BY is_recurring_weekly DESC, start_date, id`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list off days: %w", err)
	}
	defer rows.Close()

	var items []*OffDay
	for rows.Next() {
		o, err := scanOffDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan off day: %w", err)
		}
		items = append(items, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate off days: %w", err)
	}
	return items, nil
}

func (r *offDayRepoPG) GetByID(ctx context.Context, id int64) (*OffDay, error) {
	o, err := scanOffDay(r.conn(ctx).QueryRow(ctx,
		`SELECT `+offDayCols+` FROM doctor_off_days WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get off day %d: %w", id, err)
	}
	return o, nil
}

// Upsert relies on the two partial unique indexes on doctor_off_days: one on
// (doctor_id, day_of_week) for recurring records, one on
// (doctor_id, start_date) for ranged records. A conflicting write updates the
// existing row's mutable fields and leaves id, doctor_id, start_date and
// created_at intact, so repeating the same request converges on one row.
func (r *offDayRepoPG) Upsert(ctx context.Context, o *OffDay) error {
	var row pgx.Row
	if o.IsRecurringWeekly {
		row = r.conn(ctx).QueryRow(ctx, `
			INSERT INTO doctor_off_days
				(doctor_id, start_date, end_date, is_recurring_weekly, day_of_week, type, reason, status)
			VALUES ($1, $2, NULL, TRUE, $3, $4, $5, $6)
			ON CONFLICT (doctor_id, day_of_week) WHERE is_recurring_weekly
			DO UPDATE SET
				type = EXCLUDED.type,
				reason = EXCLUDED.reason,
				status = EXCLUDED.status,
				updated_at = NOW()
			RETURNING `+offDayCols,
			o.DoctorID, o.StartDate.Time(), o.DayOfWeek, o.Type, o.Reason, o.Status)
	} else {
		var end *time.Time
		if o.EndDate != nil {
			t := o.EndDate.Time()
			end = &t
		}
		row = r.conn(ctx).QueryRow(ctx, `
			INSERT INTO doctor_off_days
				(doctor_id, start_date, end_date, is_recurring_weekly, day_of_week, type, reason, status)
			VALUES ($1, $2, $3, FALSE, NULL, $4, $5, $6)
			ON CONFLICT (doctor_id, start_date) WHERE NOT is_recurring_weekly
			DO UPDATE SET
				end_date = EXCLUDED.end_date,
				type = EXCLUDED.type,
				reason = EXCLUDED.reason,
				status = EXCLUDED.status,
				updated_at = NOW()
			RETURNING `+offDayCols,
			o.DoctorID, o.StartDate.Time(), end, o.Type, o.Reason, o.Status)
	}

	stored, err := scanOffDay(row)
	if err != nil {
		return fmt.Errorf("upsert off day: %w", err)
	}
	*o = *stored
	return nil
}

func (r *offDayRepoPG) SetStatus(ctx context.Context, id int64, status Status) (*OffDay, error) {
	o, err := scanOffDay(r.conn(ctx).QueryRow(ctx, `
		UPDATE doctor_off_days SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+offDayCols, id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("set off day %d status: %w", id, err)
	}
	return o, nil
}
