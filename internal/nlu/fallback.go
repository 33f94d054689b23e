package nlu

import (
	"context"

	"github.com/anjila-26/spa-concierge/pkg/logging"
)

// FallbackClassifier wraps a primary classifier with a fallback. If the
// primary fails, the fallback answers instead of surfacing the outage to the
// caller. With no fallback configured, the primary error passes through.
type FallbackClassifier struct {
	primary  Classifier
	fallback Classifier
	logger   *logging.Logger
}

// NewFallbackClassifier creates a fallback-enabled classifier.
func NewFallbackClassifier(primary, fallback Classifier, logger *logging.Logger) *FallbackClassifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackClassifier{primary: primary, fallback: fallback, logger: logger}
}

var _ Classifier = (*FallbackClassifier)(nil)

// Classify asks the primary classifier and retries with the fallback on error.
func (c *FallbackClassifier) Classify(ctx context.Context, text string) (Prediction, error) {
	pred, err := c.primary.Classify(ctx, text)
	if err == nil {
		return pred, nil
	}

	c.logger.Warn("primary classifier failed, attempting fallback",
		"error", err.Error(),
		"fallback_available", c.fallback != nil,
	)

	if c.fallback == nil {
		return Prediction{}, err
	}

	fallbackPred, fallbackErr := c.fallback.Classify(ctx, text)
	if fallbackErr != nil {
		c.logger.Error("fallback classifier also failed",
			"primary_error", err.Error(),
			"fallback_error", fallbackErr.Error(),
		)
		return Prediction{}, fallbackErr
	}
	return fallbackPred, nil
}
