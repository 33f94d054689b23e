package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anjila-26/spa-concierge/internal/appointments"
	"github.com/anjila-26/spa-concierge/internal/chat"
	"github.com/anjila-26/spa-concierge/internal/conversation"
	"github.com/anjila-26/spa-concierge/internal/nlu"
	"github.com/anjila-26/spa-concierge/internal/pricing"
	"github.com/anjila-26/spa-concierge/pkg/logging"
)

func newTestRouter(t *testing.T, adminSecret string) (http.Handler, appointments.Store) {
	t.Helper()

	logger := logging.Default()
	store := appointments.NewMemoryStore()
	engine := conversation.NewEngine(
		nlu.NewRuleClassifier(),
		nlu.NewRuleExtractor(),
		pricing.NewLookup(),
		store,
		conversation.WithDefaultUserID("user123"),
	)
	handler := chat.NewHandler(engine, store, nil, logger, "user123")

	cfg := &Config{
		Logger:             logger,
		ChatHandler:        handler,
		CORSAllowedOrigins: []string{"*"},
		AdminAuthSecret:    adminSecret,
	}
	return New(cfg), store
}

func TestRouterHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestRouterChatEndToEnd(t *testing.T) {
	router, store := newTestRouter(t, "")

	body, err := json.Marshal(map[string]string{
		"message": "book a swedish massage",
		"user_id": "u1",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Response string `json:"response"`
		Intent   string `json:"intent"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "book_service", resp.Intent)
	assert.Contains(t, resp.Response, "booked successfully for Swedish Massage")

	appts, err := store.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, appts, 1)
}

func TestRouterServicesEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/services", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Services []struct {
			Name string `json:"name"`
		} `json:"services"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Services, 8)
}

func TestRouterAdminRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t, "s3cret")

	req := httptest.NewRequest(http.MethodGet, "/admin/appointments", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte("s3cret"))
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/admin/appointments", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterAdminHiddenWithoutSecret(t *testing.T) {
	router, _ := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/admin/appointments", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterCORSHeaders(t *testing.T) {
	router, _ := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/services", nil)
	req.Header.Set("Origin", "https://widget.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://widget.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
