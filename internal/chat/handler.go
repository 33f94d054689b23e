// Package chat exposes the conversational booking API over HTTP and
// WebSocket. Handlers stay thin: validation and shaping here, everything
// else behind the conversation dispatcher.
package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/anjila-26/spa-concierge/internal/appointments"
	"github.com/anjila-26/spa-concierge/internal/catalog"
	"github.com/anjila-26/spa-concierge/internal/conversation"
	"github.com/anjila-26/spa-concierge/internal/nlu"
	"github.com/anjila-26/spa-concierge/pkg/logging"
)

// TranscriptStore records and reads per-user chat history.
type TranscriptStore interface {
	Append(ctx context.Context, userID string, msg conversation.TranscriptMessage) error
	List(ctx context.Context, userID string, limit int64) ([]conversation.TranscriptMessage, error)
}

// Handler serves the chat endpoints.
type Handler struct {
	dispatcher    conversation.Service
	store         appointments.Store
	transcript    TranscriptStore
	logger        *logging.Logger
	defaultUserID string
}

// NewHandler builds the chat handler. transcript may be nil; history then
// reads empty.
func NewHandler(dispatcher conversation.Service, store appointments.Store, transcript TranscriptStore, logger *logging.Logger, defaultUserID string) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		dispatcher:    dispatcher,
		store:         store,
		transcript:    transcript,
		logger:        logger,
		defaultUserID: defaultUserID,
	}
}

// chatRequest is the POST /chat body. ConversationState is replayed verbatim
// from the previous response.
type chatRequest struct {
	Message string             `json:"message"`
	UserID  string             `json:"user_id"`
	State   conversation.State `json:"conversation_state"`
}

type chatResponse struct {
	Response   string             `json:"response"`
	Intent     string             `json:"intent"`
	Confidence float64            `json:"confidence"`
	State      conversation.State `json:"conversation_state"`
	Timestamp  time.Time          `json:"timestamp"`
}

// Chat handles one conversation turn.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	result, err := h.dispatcher.ProcessTurn(r.Context(), conversation.TurnRequest{
		Message: req.Message,
		UserID:  req.UserID,
		State:   req.State,
	})
	if err != nil {
		h.logger.Error("chat turn failed", "error", err, "user_id", req.UserID)
		respondError(w, http.StatusInternalServerError, "failed to process message")
		return
	}

	h.recordTranscript(r.Context(), req.UserID, req.Message, result)

	respondJSON(w, http.StatusOK, chatResponse{
		Response:   result.Reply,
		Intent:     result.Intent,
		Confidence: result.Confidence,
		State:      result.State,
		Timestamp:  result.Timestamp,
	})
}

func (h *Handler) recordTranscript(ctx context.Context, userID, message string, result *conversation.TurnResult) {
	if h.transcript == nil {
		return
	}
	if err := h.transcript.Append(ctx, userID, conversation.TranscriptMessage{
		Role: "user",
		Body: message,
	}); err != nil {
		h.logger.Warn("failed to record user message", "error", err, "user_id", userID)
	}
	if err := h.transcript.Append(ctx, userID, conversation.TranscriptMessage{
		Role:   "assistant",
		Body:   result.Reply,
		Intent: result.Intent,
	}); err != nil {
		h.logger.Warn("failed to record assistant reply", "error", err, "user_id", userID)
	}
}

// Services lists the bookable service catalog.
func (h *Handler) Services(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"services": catalog.Services(),
	})
}

// appointmentView is the listing shape: the stored "date time" value split
// into separate fields, with "TBD" standing in when nothing was extracted.
type appointmentView struct {
	ID        int64               `json:"id"`
	UserID    string              `json:"user_id"`
	Service   string              `json:"service"`
	Date      string              `json:"date"`
	Time      string              `json:"time"`
	Status    appointments.Status `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

const datetimePlaceholder = "TBD"

func toView(a appointments.Appointment) appointmentView {
	v := appointmentView{
		ID:        a.ID,
		UserID:    a.UserID,
		Service:   a.Service,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}

	switch {
	case a.DateTime == "" || a.DateTime == nlu.Sentinel:
		v.Date = datetimePlaceholder
		v.Time = datetimePlaceholder
	default:
		parts := strings.SplitN(a.DateTime, " ", 2)
		v.Date = parts[0]
		if len(parts) == 2 {
			v.Time = parts[1]
		}
	}
	return v
}

// Appointments lists a user's appointments, newest last.
func (h *Handler) Appointments(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user id is required")
		return
	}

	appts, err := h.store.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err, "user_id", userID)
		respondError(w, http.StatusInternalServerError, "failed to list appointments")
		return
	}

	views := make([]appointmentView, 0, len(appts))
	for _, a := range appts {
		views = append(views, toView(a))
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user_id":      userID,
		"appointments": views,
	})
}

// History returns recent chat transcript entries for a user.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = h.defaultUserID
	}

	limit := int64(50)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	if h.transcript == nil {
		respondJSON(w, http.StatusOK, map[string]any{"messages": []conversation.TranscriptMessage{}})
		return
	}

	messages, err := h.transcript.List(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error("failed to load chat history", "error", err, "user_id", userID)
		respondError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if messages == nil {
		messages = []conversation.TranscriptMessage{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

// AdminAppointments lists every appointment across users.
func (h *Handler) AdminAppointments(w http.ResponseWriter, r *http.Request) {
	appts, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list all appointments", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list appointments")
		return
	}
	if appts == nil {
		appts = []appointments.Appointment{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"appointments": appts})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
