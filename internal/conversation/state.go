// Package conversation implements the dialogue engine: a straight-line
// classify -> enrich -> act pipeline that turns one (message, user, state)
// triple into (reply, new state). The engine holds no cross-turn memory;
// everything it needs to resume a dialogue travels in the caller-replayed
// conversation state.
package conversation

import (
	"context"
	"encoding/json"
	"time"
)

// PendingAction names an in-progress multi-turn action carried in the
// conversation state.
type PendingAction int

const (
	PendingNone PendingAction = iota
	PendingRescheduleDate
)

// pendingRescheduleWire is the wire value for PendingRescheduleDate. The
// wire shape predates this implementation and must stay stable: callers
// persist and replay it verbatim.
const pendingRescheduleWire = "reschedule"

// State is the cross-turn conversation memory. It is opaque to callers and
// rewritten wholesale by the engine every turn.
type State struct {
	UserID  string
	Pending PendingAction
}

type stateWire struct {
	UserID  string `json:"user_id,omitempty"`
	Pending string `json:"pending,omitempty"`
}

// MarshalJSON keeps the historical wire shape {"user_id":..,"pending":"reschedule"}.
func (s State) MarshalJSON() ([]byte, error) {
	w := stateWire{UserID: s.UserID}
	if s.Pending == PendingRescheduleDate {
		w.Pending = pendingRescheduleWire
	}
	return json.Marshal(w)
}

// UnmarshalJSON tolerates unknown keys and unknown pending markers; both are
// dropped, since the engine owns the state wholesale.
func (s *State) UnmarshalJSON(data []byte) error {
	var w stateWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	s.UserID = w.UserID
	if w.Pending == pendingRescheduleWire {
		s.Pending = PendingRescheduleDate
	} else {
		s.Pending = PendingNone
	}
	return nil
}

// TurnRequest is one inbound conversation turn.
type TurnRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
	State   State  `json:"state"`
}

// TurnResult is the processed outcome of one turn.
type TurnResult struct {
	Reply      string    `json:"reply"`
	Intent     string    `json:"intent"`
	Confidence float64   `json:"confidence"`
	State      State     `json:"state"`
	Timestamp  time.Time `json:"timestamp"`
}

// Service describes how the dialogue engine behaves. The HTTP layer and the
// queue-backed dispatcher both speak this interface.
type Service interface {
	ProcessTurn(ctx context.Context, req TurnRequest) (*TurnResult, error)
}
