package appointments

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies
// it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores appointments in PostgreSQL.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository creates a repository backed by a pgx pool.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("appointments: db required")
	}
	return &PostgresRepository{db: db}
}

var _ Store = (*PostgresRepository)(nil)

// Create inserts a pending appointment and returns it with the assigned id.
func (r *PostgresRepository) Create(ctx context.Context, userID, service, dateTime string) (*Appointment, error) {
	appt := Appointment{
		UserID:   userID,
		Service:  service,
		DateTime: dateTime,
		Status:   StatusPending,
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO appointments (user_id, service, date_time, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, userID, service, dateTime, StatusPending).Scan(&appt.ID, &appt.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("appointments: insert: %w", err)
	}
	return &appt, nil
}

// Reschedule updates the scheduled date/time of one appointment.
func (r *PostgresRepository) Reschedule(ctx context.Context, id int64, dateTime string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE appointments SET date_time = $2 WHERE id = $1
	`, id, dateTime)
	if err != nil {
		return fmt.Errorf("appointments: reschedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Cancel marks one appointment cancelled.
func (r *PostgresRepository) Cancel(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE appointments SET status = $2 WHERE id = $1
	`, id, StatusCancelled)
	if err != nil {
		return fmt.Errorf("appointments: cancel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns one user's appointments in creation (id) order.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, service, date_time, status, created_at
		FROM appointments
		WHERE user_id = $1
		ORDER BY id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("appointments: list by user: %w", err)
	}
	return scanAppointments(rows)
}

// List returns every appointment in creation (id) order.
func (r *PostgresRepository) List(ctx context.Context) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, service, date_time, status, created_at
		FROM appointments
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	return scanAppointments(rows)
}

func scanAppointments(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.UserID, &a.Service, &a.DateTime, &a.Status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("appointments: scan row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: iterate rows: %w", err)
	}
	return out, nil
}
