package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/anjila-26/spa-concierge/internal/nlu"
)

// stageResult carries the classification outcome through the pipeline.
type stageResult struct {
	Intent     string
	Confidence float64
	Reply      string
}

// bookingOverrideReply replaces the classifier's canned reply when the
// keyword override fires.
const bookingOverrideReply = "I'd be happy to help you book that massage!"

var (
	bookingKeywords = []string{"book", "schedule", "appointment", "reserve"}
	serviceKeywords = []string{"massage", "thai", "swedish", "deep tissue", "hot stone"}
)

// classify runs the external classifier and applies the deterministic
// override rules, in precedence order: classifier baseline, then the
// booking-keyword override (which keeps the classifier's confidence), then
// the pending-reschedule override, which reinterprets any message as the
// date/time the user was asked for.
func (e *Engine) classify(ctx context.Context, message string, state State) (stageResult, error) {
	pred, err := e.classifier.Classify(ctx, message)
	if err != nil {
		return stageResult{}, fmt.Errorf("conversation: classify turn: %w", err)
	}

	res := stageResult{
		Intent:     pred.Intent,
		Confidence: pred.Confidence,
		Reply:      nlu.CannedReply(pred.Intent),
	}

	lower := strings.ToLower(message)
	if containsAny(lower, bookingKeywords) && containsAny(lower, serviceKeywords) {
		res.Intent = nlu.IntentBookService
		res.Reply = bookingOverrideReply
	}

	if state.Pending == PendingRescheduleDate {
		res.Intent = nlu.IntentProvideDatetime
	}

	return res, nil
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// enrich overwrites the reply with a pricing answer for pricing inquiries;
// every other intent passes through untouched. The lookup never returns an
// empty reply: a miss yields the enumerated fallback message.
func (e *Engine) enrich(res stageResult, message string) stageResult {
	if res.Intent == nlu.IntentPricingInquiry && e.prices != nil {
		res.Reply = e.prices.Answer(message)
	}
	return res
}
