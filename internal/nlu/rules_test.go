package nlu

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleClassifierIntents(t *testing.T) {
	c := NewRuleClassifier()

	tests := []struct {
		text string
		want string
	}{
		{"Can I reschedule my booking?", IntentReschedule},
		{"please cancel my massage", IntentCancel},
		{"how much is a thai massage", IntentPricingInquiry},
		{"I want to book a swedish massage tomorrow at 3pm", IntentBookService},
		{"what's the status of my bookings", IntentBookingStatus},
		{"yes", IntentConfirm},
		{"nope", IntentDeny},
		{"thanks a lot", IntentThanks},
		{"hello there", IntentGreeting},
		{"tomorrow at 3pm", IntentProvideDatetime},
		{"2026-03-04 14:00", IntentProvideDatetime},
		{"xyzzy", IntentUnknown},
		{"", IntentUnknown},
	}
	for _, tt := range tests {
		pred, err := c.Classify(context.Background(), tt.text)
		require.NoError(t, err)
		assert.Equal(t, tt.want, pred.Intent, "text %q", tt.text)
	}
}

func TestRuleClassifierConfidenceRange(t *testing.T) {
	c := NewRuleClassifier()
	for _, text := range []string{"book a massage", "cancel it", "gibberish", ""} {
		pred, err := c.Classify(context.Background(), text)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, pred.Confidence, 0.0)
		assert.LessOrEqual(t, pred.Confidence, 1.0)
	}
}

func TestCannedReply(t *testing.T) {
	assert.Equal(t, "Hello! How can I help with your booking?", CannedReply(IntentGreeting))
	assert.Equal(t, "Sure, let's reschedule. Provide the new date and time.", CannedReply(IntentReschedule))
	assert.Equal(t, "I'm sorry, I didn't understand that.", CannedReply("weird_label"))
}
