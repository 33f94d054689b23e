package nlu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/anjila-26/spa-concierge/pkg/logging"
)

// ModelServerClient talks to the text-classification model sidecar over HTTP.
// The sidecar exposes POST /intent and POST /datetime taking {"text": ...}.
type ModelServerClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// ModelServerOption configures the client.
type ModelServerOption func(*ModelServerClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ModelServerOption {
	return func(c *ModelServerClient) {
		c.httpClient = client
	}
}

// WithTimeout overrides the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) ModelServerOption {
	return func(c *ModelServerClient) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) ModelServerOption {
	return func(c *ModelServerClient) {
		c.logger = logger
	}
}

// NewModelServerClient creates a client for the model sidecar at baseURL.
func NewModelServerClient(baseURL string, opts ...ModelServerOption) *ModelServerClient {
	c := &ModelServerClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Classifier = (*ModelServerClient)(nil)
var _ Extractor = (*ModelServerClient)(nil)

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

type extractResponse struct {
	Datetime string `json:"datetime"`
	Found    bool   `json:"found"`
}

// Classify posts the message to the sidecar's /intent endpoint.
func (c *ModelServerClient) Classify(ctx context.Context, text string) (Prediction, error) {
	var resp classifyResponse
	if err := c.post(ctx, "/intent", classifyRequest{Text: text}, &resp); err != nil {
		return Prediction{}, err
	}
	if resp.Intent == "" {
		return Prediction{}, fmt.Errorf("nlu: model server returned empty intent")
	}
	return Prediction{Intent: resp.Intent, Confidence: resp.Confidence}, nil
}

// Extract posts the message to the sidecar's /datetime endpoint.
func (c *ModelServerClient) Extract(ctx context.Context, text string) (string, bool, error) {
	var resp extractResponse
	if err := c.post(ctx, "/datetime", classifyRequest{Text: text}, &resp); err != nil {
		return "", false, err
	}
	if !resp.Found || resp.Datetime == "" {
		return "", false, nil
	}
	return resp.Datetime, true, nil
}

func (c *ModelServerClient) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("nlu: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("nlu: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("nlu: model server unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("model server error", "path", path, "status", resp.StatusCode)
		return fmt.Errorf("nlu: model server %s returned %d: %s", path, resp.StatusCode, string(snippet))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("nlu: decode response: %w", err)
	}
	return nil
}
