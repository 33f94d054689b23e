package chat

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/websocket"

	"github.com/anjila-26/spa-concierge/internal/conversation"
)

// inboundWS is what the chat widget sends over the socket.
type inboundWS struct {
	Type    string             `json:"type"` // "message" or "ping"
	Message string             `json:"message,omitempty"`
	UserID  string             `json:"user_id,omitempty"`
	State   conversation.State `json:"conversation_state,omitempty"`
}

// outboundWS mirrors the REST chat response, plus control frames.
type outboundWS struct {
	Type       string              `json:"type"` // "message", "pong", "error"
	Response   string              `json:"response,omitempty"`
	Intent     string              `json:"intent,omitempty"`
	Confidence float64             `json:"confidence,omitempty"`
	State      *conversation.State `json:"conversation_state,omitempty"`
	Timestamp  string              `json:"timestamp,omitempty"`
}

// ChatWS upgrades to WebSocket and runs turns over the open connection. The
// client carries the conversation state between frames exactly as a REST
// caller would between requests.
func (h *Handler) ChatWS(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = h.defaultUserID
	}

	h.logger.Info("chat socket opened", "user_id", userID)
	defer h.logger.Debug("chat socket closed", "user_id", userID)

	for {
		var msg inboundWS
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			return
		}

		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, outboundWS{Type: "pong"})
			continue
		}
		if msg.Type != "message" || strings.TrimSpace(msg.Message) == "" {
			continue
		}

		turnUser := msg.UserID
		if turnUser == "" {
			turnUser = userID
		}

		result, err := h.dispatcher.ProcessTurn(r.Context(), conversation.TurnRequest{
			Message: msg.Message,
			UserID:  turnUser,
			State:   msg.State,
		})
		if err != nil {
			h.logger.Error("chat socket turn failed", "error", err, "user_id", turnUser)
			_ = websocket.JSON.Send(conn, outboundWS{
				Type:     "error",
				Response: "Sorry, something went wrong. Please try again.",
			})
			continue
		}

		h.recordTranscript(r.Context(), turnUser, msg.Message, result)

		state := result.State
		_ = websocket.JSON.Send(conn, outboundWS{
			Type:       "message",
			Response:   result.Reply,
			Intent:     result.Intent,
			Confidence: result.Confidence,
			State:      &state,
			Timestamp:  result.Timestamp.Format(time.RFC3339),
		})
	}
}
