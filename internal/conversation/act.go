package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anjila-26/spa-concierge/internal/appointments"
	"github.com/anjila-26/spa-concierge/internal/nlu"
)

// Reply sentences for the action stage. Wording is part of the external
// contract; tests assert on it.
const (
	replyNoPendingReschedule = "No pending appointments found to reschedule."
	replyNoPendingCancel     = "No pending appointments found to cancel."
	replyCancelled           = "Appointment cancelled successfully."
	replyNoBookings          = "You have no bookings yet."
	replyAskRescheduleDate   = "Sure, let's reschedule. Provide the new date and time."
	replyRescheduleConfirmed = "Sent reschedule information to pro, you will get notified once it's confirmed."
	replyAbandonReschedule   = "No problem."
)

// defaultService is booked when no service keyword matches the message.
const defaultService = "General Massage"

// serviceKeywordScan resolves a service name from the message. Scan order is
// fixed; the first match wins.
var serviceKeywordScan = []struct {
	keywords []string
	service  string
}{
	{[]string{"thai"}, "Thai Massage"},
	{[]string{"swedish"}, "Swedish Massage"},
	{[]string{"deep tissue"}, "Deep Tissue Massage"},
	{[]string{"hot stone"}, "Hot Stone Massage"},
	{[]string{"neck", "shoulder"}, "Neck and Shoulder Massage"},
	{[]string{"aromatherapy"}, "Aromatherapy Massage"},
	{[]string{"sports"}, "Sports Massage"},
	{[]string{"prenatal"}, "Prenatal Massage"},
}

func resolveService(message string) string {
	lower := strings.ToLower(message)
	for _, entry := range serviceKeywordScan {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.service
			}
		}
	}
	return defaultService
}

// act is the explicit state-transition function over (intent, state). It
// decides the side effect, the final reply, and the next conversation state.
// Domain "nothing to do" conditions become sentences, never errors; only
// store and extractor failures propagate.
func (e *Engine) act(ctx context.Context, message string, res stageResult, state State) (string, State, error) {
	userID := state.UserID
	if userID == "" {
		userID = e.defaultUserID
	}
	next := State{UserID: userID}

	switch res.Intent {
	case nlu.IntentBookService:
		reply, err := e.bookService(ctx, userID, message)
		return reply, next, err

	case nlu.IntentReschedule:
		return e.startOrPerformReschedule(ctx, userID, message, next)

	case nlu.IntentProvideDatetime:
		if state.Pending != PendingRescheduleDate {
			return res.Reply, next, nil
		}
		reply, err := e.performReschedule(ctx, userID, message)
		return reply, next, err

	case nlu.IntentConfirm:
		if state.Pending != PendingRescheduleDate {
			return res.Reply, next, nil
		}
		reply, err := e.confirmReschedule(ctx, userID, message)
		return reply, next, err

	case nlu.IntentDeny:
		// Abandoning an in-progress reschedule clears the marker.
		if state.Pending == PendingRescheduleDate {
			return replyAbandonReschedule, next, nil
		}
		return res.Reply, next, nil

	case nlu.IntentCancel:
		reply, err := e.cancelBooking(ctx, userID)
		return reply, next, err

	case nlu.IntentBookingStatus:
		reply, err := e.bookingStatus(ctx, userID)
		return reply, next, err

	default:
		// Unknown intents fall through silently with the stage-1/2 reply.
		return res.Reply, next, nil
	}
}

func (e *Engine) bookService(ctx context.Context, userID, message string) (string, error) {
	dateTime, err := nlu.ExtractOrSentinel(ctx, e.extractor, message)
	if err != nil {
		return "", fmt.Errorf("conversation: extract datetime: %w", err)
	}
	service := resolveService(message)

	created, err := e.store.Create(ctx, userID, service, dateTime)
	if err != nil {
		return "", fmt.Errorf("conversation: book appointment: %w", err)
	}

	// Re-fetch and take the max id as "the" new appointment, mirroring the
	// store's id-assignment contract.
	latestID := created.ID
	appts, err := e.store.ListByUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("conversation: list appointments: %w", err)
	}
	for _, a := range appts {
		if a.ID > latestID {
			latestID = a.ID
		}
	}

	return fmt.Sprintf("Great! Appointment #%d booked successfully for %s on %s.", latestID, service, dateTime), nil
}

// startOrPerformReschedule collapses the two historical reschedule paths: a
// message that already carries a date/time reschedules immediately; otherwise
// the turn only arms the pending marker and asks for the date.
func (e *Engine) startOrPerformReschedule(ctx context.Context, userID, message string, next State) (string, State, error) {
	appts, err := e.store.ListByUser(ctx, userID)
	if err != nil {
		return "", next, fmt.Errorf("conversation: list appointments: %w", err)
	}
	last, ok := appointments.LastPending(appts)
	if !ok {
		return replyNoPendingReschedule, next, nil
	}

	dateTime, found, err := extract(ctx, e.extractor, message)
	if err != nil {
		return "", next, fmt.Errorf("conversation: extract datetime: %w", err)
	}
	if !found {
		next.Pending = PendingRescheduleDate
		return replyAskRescheduleDate, next, nil
	}

	if err := e.store.Reschedule(ctx, last.ID, dateTime); err != nil {
		return "", next, fmt.Errorf("conversation: reschedule appointment: %w", err)
	}
	return fmt.Sprintf("Appointment #%d rescheduled successfully to %s.", last.ID, dateTime), next, nil
}

// performReschedule updates the user's most recent pending appointment with
// whatever the current message carries, the sentinel included.
func (e *Engine) performReschedule(ctx context.Context, userID, message string) (string, error) {
	dateTime, err := nlu.ExtractOrSentinel(ctx, e.extractor, message)
	if err != nil {
		return "", fmt.Errorf("conversation: extract datetime: %w", err)
	}

	appts, err := e.store.ListByUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("conversation: list appointments: %w", err)
	}
	last, ok := appointments.LastPending(appts)
	if !ok {
		return replyNoPendingReschedule, nil
	}

	if err := e.store.Reschedule(ctx, last.ID, dateTime); err != nil {
		return "", fmt.Errorf("conversation: reschedule appointment: %w", err)
	}
	return fmt.Sprintf("Appointment #%d rescheduled successfully to %s.", last.ID, dateTime), nil
}

// confirmReschedule completes the reschedule flow with the legacy "sent to
// pro" wording, appending the store outcome.
func (e *Engine) confirmReschedule(ctx context.Context, userID, message string) (string, error) {
	dateTime, err := nlu.ExtractOrSentinel(ctx, e.extractor, message)
	if err != nil {
		return "", fmt.Errorf("conversation: extract datetime: %w", err)
	}

	appts, err := e.store.ListByUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("conversation: list appointments: %w", err)
	}

	storeResult := "Appointment not found."
	if last, ok := appointments.LastPending(appts); ok {
		switch err := e.store.Reschedule(ctx, last.ID, dateTime); {
		case err == nil:
			storeResult = "Appointment rescheduled successfully."
		case errors.Is(err, appointments.ErrNotFound):
			// Raced away between list and update; keep the negative sentence.
		default:
			return "", fmt.Errorf("conversation: reschedule appointment: %w", err)
		}
	}
	return replyRescheduleConfirmed + " " + storeResult, nil
}

func (e *Engine) cancelBooking(ctx context.Context, userID string) (string, error) {
	appts, err := e.store.ListByUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("conversation: list appointments: %w", err)
	}
	last, ok := appointments.LastPending(appts)
	if !ok {
		return replyNoPendingCancel, nil
	}

	switch err := e.store.Cancel(ctx, last.ID); {
	case err == nil:
		return replyCancelled, nil
	case errors.Is(err, appointments.ErrNotFound):
		return replyNoPendingCancel, nil
	default:
		return "", fmt.Errorf("conversation: cancel appointment: %w", err)
	}
}

func (e *Engine) bookingStatus(ctx context.Context, userID string) (string, error) {
	appts, err := e.store.ListByUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("conversation: list appointments: %w", err)
	}
	if len(appts) == 0 {
		return replyNoBookings, nil
	}
	latest := appts[len(appts)-1]
	return fmt.Sprintf("You have %d booking(s). Your most recent: %s on %s (Status: %s)",
		len(appts), latest.Service, latest.DateTime, latest.Status), nil
}

// extract wraps the optional extractor, reporting absence without an error.
func extract(ctx context.Context, e nlu.Extractor, text string) (string, bool, error) {
	if e == nil {
		return "", false, nil
	}
	return e.Extract(ctx, text)
}
