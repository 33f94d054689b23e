// Package appointments persists booking records. Records are append-only:
// reschedule and cancel mutate fields in place, nothing is ever deleted, and
// ids are store-wide, monotonic, and never reused.
package appointments

import (
	"context"
	"errors"
	"time"
)

// Status is the appointment lifecycle state. There is no "completed" state;
// the only transition is pending -> cancelled.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
)

// ErrNotFound is returned by point updates that match no row.
var ErrNotFound = errors.New("appointments: not found")

// Appointment is one booking record.
type Appointment struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Service   string    `json:"service"`
	DateTime  string    `json:"date_time"` // normalized value or the "Not extracted" sentinel
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the persistence contract. Listings return rows in id-ascending
// order; "last pending" selection depends on that.
type Store interface {
	Create(ctx context.Context, userID, service, dateTime string) (*Appointment, error)
	Reschedule(ctx context.Context, id int64, dateTime string) error
	Cancel(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID string) ([]Appointment, error)
	List(ctx context.Context) ([]Appointment, error)
}

// LastPending returns the most recently created appointment still pending,
// relying on the store's id-ascending row order.
func LastPending(appts []Appointment) (Appointment, bool) {
	for i := len(appts) - 1; i >= 0; i-- {
		if appts[i].Status == StatusPending {
			return appts[i], true
		}
	}
	return Appointment{}, false
}
