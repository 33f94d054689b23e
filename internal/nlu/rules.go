package nlu

import (
	"context"
	"regexp"
	"strings"
)

// RuleClassifier is a deterministic keyword classifier over the intent
// taxonomy. It stands in for the trained model in development mode and acts
// as the degraded path when the model server is unreachable.
type RuleClassifier struct {
	patterns []rulePattern
}

type rulePattern struct {
	regex      *regexp.Regexp
	intent     string
	confidence float64
}

// NewRuleClassifier builds the classifier. Pattern order is precedence order:
// the first match wins.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{
		patterns: []rulePattern{
			{regexp.MustCompile(`(?i)\b(resched|reschedule|move|change)\b.*\b(booking|appointment|massage|it)\b`), IntentReschedule, 0.90},
			{regexp.MustCompile(`(?i)\breschedule\b`), IntentReschedule, 0.85},
			{regexp.MustCompile(`(?i)\b(cancel|call off)\b`), IntentCancel, 0.90},
			{regexp.MustCompile(`(?i)\b(price|prices|pricing|cost|costs|how much|rates?|fee)\b`), IntentPricingInquiry, 0.88},
			{regexp.MustCompile(`(?i)\b(book|schedule|reserve|appointment)\b`), IntentBookService, 0.85},
			{regexp.MustCompile(`(?i)\b(status|my booking|my bookings|my appointments?)\b`), IntentBookingStatus, 0.85},
			{regexp.MustCompile(`(?i)\b(yes|yeah|yep|sure|confirm|ok|okay|sounds good)\b`), IntentConfirm, 0.80},
			{regexp.MustCompile(`(?i)\b(no|nope|nah|never mind|don'?t)\b`), IntentDeny, 0.80},
			{regexp.MustCompile(`(?i)\b(thanks|thank you|thx)\b`), IntentThanks, 0.85},
			{regexp.MustCompile(`(?i)\b(hi|hello|hey|good (morning|afternoon|evening))\b`), IntentGreeting, 0.85},
		},
	}
}

var _ Classifier = (*RuleClassifier)(nil)

// Classify matches the message against the pattern list. Messages that look
// like a bare date/time classify as provide_datetime; anything else is
// unknown with low confidence.
func (c *RuleClassifier) Classify(_ context.Context, text string) (Prediction, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Prediction{Intent: IntentUnknown, Confidence: 0}, nil
	}

	for _, p := range c.patterns {
		if p.regex.MatchString(trimmed) {
			return Prediction{Intent: p.intent, Confidence: p.confidence}, nil
		}
	}

	if looksLikeDatetime(trimmed) {
		return Prediction{Intent: IntentProvideDatetime, Confidence: 0.75}, nil
	}

	return Prediction{Intent: IntentUnknown, Confidence: 0.30}, nil
}

var datetimeHint = regexp.MustCompile(`(?i)(\d{4}-\d{2}-\d{2}|\d{1,2}[:/]\d{2}|\d{1,2}\s?(am|pm)\b|\b(today|tomorrow|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b)`)

func looksLikeDatetime(text string) bool {
	return datetimeHint.MatchString(text)
}
