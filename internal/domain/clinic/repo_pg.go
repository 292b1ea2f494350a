package clinic

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthque/api/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type scheduleRepoPG struct{ pool *pgxpool.Pool }

func NewScheduleRepoPG(pool *pgxpool.Pool) ScheduleRepository { return &scheduleRepoPG{pool: pool} }

func (r *scheduleRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const scheduleCols = `id, doctor_id, hours, created_at, updated_at`

func scanSchedule(row pgx.Row) (*Schedule, error) {
	var s Schedule
	err := row.Scan(&s.ID, &s.DoctorID, &s.Hours, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *scheduleRepoPG) GetByDoctor(ctx context.Context, doctorID int64) (*Schedule, error) {
	s, err := scanSchedule(r.conn(ctx).QueryRow(ctx,
		`SELECT `+scheduleCols+` FROM clinic_schedules WHERE doctor_id = $1`, doctorID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get clinic schedule for doctor %d: %w", doctorID, err)
	}
	return s, nil
}

func (r *scheduleRepoPG) Put(ctx context.Context, s *Schedule) error {
	stored, err := scanSchedule(r.conn(ctx).QueryRow(ctx, `
		INSERT INTO clinic_schedules (doctor_id, hours)
		VALUES ($1, $2)
		ON CONFLICT (doctor_id)
		DO UPDATE SET hours = EXCLUDED.hours, updated_at = NOW()
		RETURNING `+scheduleCols,
		s.DoctorID, s.Hours))
	if err != nil {
		return fmt.Errorf("put clinic schedule for doctor %d: %w", s.DoctorID, err)
	}
	*s = *stored
	return nil
}

func (r *scheduleRepoPG) Delete(ctx context.Context, doctorID int64) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM clinic_schedules WHERE doctor_id = $1`, doctorID)
	if err != nil {
		return fmt.Errorf("delete clinic schedule for doctor %d: %w", doctorID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
