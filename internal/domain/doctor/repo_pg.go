package doctor

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

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository { return &doctorRepoPG{pool: pool} }

func (r *doctorRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const doctorCols = `id, name, specialty, location, email, phone, user_id, active, created_at, updated_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.Name, &d.Specialty, &d.Location, &d.Email,
		&d.Phone, &d.UserID, &d.Active, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	stored, err := scanDoctor(r.conn(ctx).QueryRow(ctx, `
		INSERT INTO doctors (name, specialty, location, email, phone, user_id, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+doctorCols,
		d.Name, d.Specialty, d.Location, d.Email, d.Phone, d.UserID, d.Active))
	if err != nil {
		return fmt.Errorf("create doctor: %w", err)
	}
	*d = *stored
	return nil
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id int64) (*Doctor, error) {
	d, err := scanDoctor(r.conn(ctx).QueryRow(ctx,
		`SELECT `+doctorCols+` FROM doctors WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get doctor %d: %w", id, err)
	}
	return d, nil
}

func (r *doctorRepoPG) GetByUserID(ctx context.Context, userID string) (*Doctor, error) {
	d, err := scanDoctor(r.conn(ctx).QueryRow(ctx,
		`SELECT `+doctorCols+` FROM doctors WHERE user_id = $1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get doctor for user %s: %w", userID, err)
	}
	return d, nil
}

func (r *doctorRepoPG) Update(ctx context.Context, d *Doctor) error {
	stored, err := scanDoctor(r.conn(ctx).QueryRow(ctx, `
		UPDATE doctors SET name=$2, specialty=$3, location=$4, email=$5, phone=$6, updated_at=NOW()
		WHERE id = $1
		RETURNING `+doctorCols,
		d.ID, d.Name, d.Specialty, d.Location, d.Email, d.Phone))
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update doctor %d: %w", d.ID, err)
	}
	*d = *stored
	return nil
}

func (r *doctorRepoPG) SetActive(ctx context.Context, id int64, active bool) (*Doctor, error) {
	d, err := scanDoctor(r.conn(ctx).QueryRow(ctx, `
		UPDATE doctors SET active=$2, updated_at=NOW() WHERE id = $1
		RETURNING `+doctorCols, id, active))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("set doctor %d active: %w", id, err)
	}
	return d, nil
}

func (r *doctorRepoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete doctor %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// sortColumns whitelists the ORDER BY targets a client may request.
var sortColumns = map[string]string{
	"name":       "name",
	"specialty":  "specialty",
	"location":   "location",
	"created_at": "created_at",
}

func (r *doctorRepoPG) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Doctor, int, error) {
	query := `SELECT ` + doctorCols + ` FROM doctors WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM doctors WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.Name != "" {
		clause := fmt.Sprintf(` AND name ILIKE $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+f.Name+"%")
		idx++
	}
	if f.Specialty != "" {
		clause := fmt.Sprintf(` AND specialty = $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, f.Specialty)
		idx++
	}
	if f.Location != "" {
		clause := fmt.Sprintf(` AND location = $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, f.Location)
		idx++
	}
	if f.ActiveOnly {
		query += ` AND active`
		countQuery += ` AND active`
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count doctors: %w", err)
	}

	sort, ok := sortColumns[f.Sort]
	if !ok {
		sort = "name"
	}
	query += fmt.Sprintf(` ORDER BY %s LIMIT $%d OFFSET $%d`, sort, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	var items []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan doctor: %w", err)
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate doctors: %w", err)
	}
	return items, total, nil
}
