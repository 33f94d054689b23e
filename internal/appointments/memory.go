package appointments

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps appointments in memory. It backs development mode (no
// DATABASE_URL) and tests. Slice order is insertion order, which matches the
// id-ascending contract because ids are assigned sequentially.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	appts  []Appointment
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

var _ Store = (*MemoryStore)(nil)

// Create appends a pending appointment with the next id.
func (s *MemoryStore) Create(_ context.Context, userID, service, dateTime string) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt := Appointment{
		ID:        s.nextID,
		UserID:    userID,
		Service:   service,
		DateTime:  dateTime,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	s.nextID++
	s.appts = append(s.appts, appt)

	out := appt
	return &out, nil
}

// Reschedule updates the date/time of the appointment with the given id.
func (s *MemoryStore) Reschedule(_ context.Context, id int64, dateTime string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.appts {
		if s.appts[i].ID == id {
			s.appts[i].DateTime = dateTime
			return nil
		}
	}
	return ErrNotFound
}

// Cancel marks the appointment with the given id cancelled.
func (s *MemoryStore) Cancel(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.appts {
		if s.appts[i].ID == id {
			s.appts[i].Status = StatusCancelled
			return nil
		}
	}
	return ErrNotFound
}

// ListByUser returns one user's appointments in creation order.
func (s *MemoryStore) ListByUser(_ context.Context, userID string) ([]Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Appointment
	for _, a := range s.appts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

// List returns all appointments in creation order.
func (s *MemoryStore) List(_ context.Context) ([]Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Appointment, len(s.appts))
	copy(out, s.appts)
	return out, nil
}
