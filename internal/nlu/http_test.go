package nlu

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModelServer(t *testing.T, intentResp, datetimeResp string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var req struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Text)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		switch r.URL.Path {
		case "/intent":
			_, _ = w.Write([]byte(intentResp))
		case "/datetime":
			_, _ = w.Write([]byte(datetimeResp))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestModelServerClassify(t *testing.T) {
	srv := newModelServer(t, `{"intent":"book_service","confidence":0.87}`, `{}`, http.StatusOK)
	defer srv.Close()

	client := NewModelServerClient(srv.URL)
	pred, err := client.Classify(context.Background(), "book a massage")
	require.NoError(t, err)
	assert.Equal(t, "book_service", pred.Intent)
	assert.InDelta(t, 0.87, pred.Confidence, 1e-9)
}

func TestModelServerClassifyEmptyIntent(t *testing.T) {
	srv := newModelServer(t, `{"intent":"","confidence":0.5}`, `{}`, http.StatusOK)
	defer srv.Close()

	client := NewModelServerClient(srv.URL)
	_, err := client.Classify(context.Background(), "hello")
	require.Error(t, err)
}

func TestModelServerClassifyServerError(t *testing.T) {
	srv := newModelServer(t, `oops`, `{}`, http.StatusInternalServerError)
	defer srv.Close()

	client := NewModelServerClient(srv.URL)
	_, err := client.Classify(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestModelServerClassifyUnreachable(t *testing.T) {
	client := NewModelServerClient("http://127.0.0.1:1")
	_, err := client.Classify(context.Background(), "hello")
	require.Error(t, err)
}

func TestModelServerExtract(t *testing.T) {
	srv := newModelServer(t, `{}`, `{"datetime":"2026-03-05 15:00","found":true}`, http.StatusOK)
	defer srv.Close()

	client := NewModelServerClient(srv.URL)
	value, found, err := client.Extract(context.Background(), "tomorrow at 3pm")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "2026-03-05 15:00", value)
}

func TestModelServerExtractNotFound(t *testing.T) {
	srv := newModelServer(t, `{}`, `{"datetime":"","found":false}`, http.StatusOK)
	defer srv.Close()

	client := NewModelServerClient(srv.URL)
	_, found, err := client.Extract(context.Background(), "no date here")
	require.NoError(t, err)
	assert.False(t, found)
}
