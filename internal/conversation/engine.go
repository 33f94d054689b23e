package conversation

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/anjila-26/spa-concierge/internal/appointments"
	"github.com/anjila-26/spa-concierge/internal/nlu"
	"github.com/anjila-26/spa-concierge/internal/observability/metrics"
	"github.com/anjila-26/spa-concierge/pkg/logging"
)

// PriceAnswerer answers free-text pricing questions with a full sentence.
type PriceAnswerer interface {
	Answer(query string) string
}

// Engine is the dialogue engine. It is safe for concurrent use as long as
// its collaborators are.
type Engine struct {
	classifier    nlu.Classifier
	extractor     nlu.Extractor
	prices        PriceAnswerer
	store         appointments.Store
	logger        *logging.Logger
	metrics       *metrics.ChatMetrics
	tracer        trace.Tracer
	defaultUserID string
	now           func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *logging.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics sets the turn metrics sink.
func WithMetrics(m *metrics.ChatMetrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// WithDefaultUserID sets the user id applied when a turn carries none.
func WithDefaultUserID(id string) EngineOption {
	return func(e *Engine) { e.defaultUserID = id }
}

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// NewEngine builds a dialogue engine over the given collaborators. The
// classifier and store are required; extractor and prices may be nil, in
// which case date extraction always misses and pricing replies stay canned.
func NewEngine(classifier nlu.Classifier, extractor nlu.Extractor, prices PriceAnswerer, store appointments.Store, opts ...EngineOption) *Engine {
	e := &Engine{
		classifier: classifier,
		extractor:  extractor,
		prices:     prices,
		store:      store,
		logger:     logging.Default(),
		tracer:     otel.Tracer("conversation"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProcessTurn runs one full turn through the pipeline: classify the message,
// enrich the reply, act on the appointment store, and return the reply with
// the replacement conversation state.
func (e *Engine) ProcessTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	ctx, span := e.tracer.Start(ctx, "conversation.ProcessTurn",
		trace.WithAttributes(attribute.String("chat.user_id", req.UserID)))
	defer span.End()

	started := e.now()

	state := req.State
	if req.UserID != "" {
		state.UserID = req.UserID
	}
	if state.UserID == "" {
		state.UserID = e.defaultUserID
	}

	res, err := e.classify(ctx, req.Message, state)
	if err != nil {
		span.RecordError(err)
		e.metrics.ObserveTurn(nlu.IntentUnknown, "error", e.now().Sub(started).Seconds())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("chat.intent", res.Intent),
		attribute.Float64("chat.confidence", res.Confidence),
	)

	res = e.enrich(res, req.Message)

	reply, nextState, err := e.act(ctx, req.Message, res, state)
	if err != nil {
		span.RecordError(err)
		e.logger.Error("turn failed",
			"user_id", state.UserID,
			"intent", res.Intent,
			"error", err,
		)
		e.metrics.ObserveTurn(res.Intent, "error", e.now().Sub(started).Seconds())
		return nil, err
	}

	e.logger.Info("turn processed",
		"user_id", nextState.UserID,
		"intent", res.Intent,
		"confidence", res.Confidence,
	)
	e.metrics.ObserveTurn(res.Intent, "ok", e.now().Sub(started).Seconds())

	return &TurnResult{
		Reply:      reply,
		Intent:     res.Intent,
		Confidence: res.Confidence,
		State:      nextState,
		Timestamp:  e.now().UTC(),
	}, nil
}
