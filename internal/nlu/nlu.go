// Package nlu provides the external language-understanding collaborators:
// intent classification and date/time extraction. The dialogue engine only
// sees the Prediction and extraction results; how they are produced (model
// server or local rules) is decided at wiring time.
package nlu

import "context"

// Intent labels form the classifier vocabulary.
const (
	IntentGreeting        = "greeting"
	IntentBookService     = "book_service"
	IntentReschedule      = "reschedule_booking"
	IntentCancel          = "cancel_booking"
	IntentPricingInquiry  = "pricing_inquiry"
	IntentBookingStatus   = "booking_status"
	IntentConfirm         = "confirm"
	IntentDeny            = "deny"
	IntentThanks          = "thanks"
	IntentProvideDatetime = "provide_datetime"
	IntentUnknown         = "unknown"
)

// Prediction is one classifier result.
type Prediction struct {
	Intent     string
	Confidence float64
}

// Classifier maps free text to an intent label with a confidence score.
type Classifier interface {
	Classify(ctx context.Context, text string) (Prediction, error)
}

// Extractor pulls a normalized "2006-01-02 15:04" date/time value out of free
// text. found is false when the text carries no recognizable date or time;
// that is not an error.
type Extractor interface {
	Extract(ctx context.Context, text string) (value string, found bool, err error)
}

// cannedReplies are the classifier-stage reply sentences per intent.
var cannedReplies = map[string]string{
	IntentGreeting:        "Hello! How can I help with your booking?",
	IntentReschedule:      "Sure, let's reschedule. Provide the new date and time.",
	IntentCancel:          "Got it. Confirm if you want to cancel.",
	IntentPricingInquiry:  "Let me check the prices.",
	IntentBookService:     "I'd be happy to book. What type and when?",
	IntentBookingStatus:   "Please provide your booking reference.",
	IntentThanks:          "You're welcome!",
	IntentConfirm:         "Confirmed!",
	IntentDeny:            "No problem.",
	IntentProvideDatetime: "Noted the time.",
}

// fallbackReply is used for intents outside the reply vocabulary.
const fallbackReply = "I'm sorry, I didn't understand that."

// CannedReply returns the baseline reply sentence for an intent.
func CannedReply(intent string) string {
	if r, ok := cannedReplies[intent]; ok {
		return r
	}
	return fallbackReply
}
