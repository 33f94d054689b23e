package nlu

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday 2026-03-04 10:30 local time.
func fixedNow() time.Time {
	return time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)
}

func newFixedExtractor() *RuleExtractor {
	return &RuleExtractor{Now: fixedNow}
}

func TestExtract(t *testing.T) {
	e := newFixedExtractor()

	tests := []struct {
		text  string
		want  string
		found bool
	}{
		{"book me tomorrow at 3pm", "2026-03-05 15:00", true},
		{"tomorrow at 3:30 pm", "2026-03-05 15:30", true},
		{"today at 9am", "2026-03-04 09:00", true},
		{"2026-04-01 14:00 works", "2026-04-01 14:00", true},
		{"how about 5/20 at noon", "2026-05-20 12:00", true},
		{"friday", "2026-03-06 00:00", true},
		{"next wednesday please", "2026-03-11 00:00", true},
		{"at 15:45", "2026-03-04 15:45", true},
		{"12am tonight", "2026-03-04 00:00", true},
		{"sometime soon", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, found, err := e.Extract(context.Background(), tt.text)
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.found, found, "text %q", tt.text)
		assert.Equal(t, tt.want, got, "text %q", tt.text)
	}
}

func TestExtractOrSentinel(t *testing.T) {
	e := newFixedExtractor()

	got, err := ExtractOrSentinel(context.Background(), e, "no dates here")
	require.NoError(t, err)
	assert.Equal(t, Sentinel, got)

	got, err = ExtractOrSentinel(context.Background(), e, "tomorrow at 3pm")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-05 15:00", got)

	got, err = ExtractOrSentinel(context.Background(), nil, "tomorrow at 3pm")
	require.NoError(t, err)
	assert.Equal(t, Sentinel, got)
}

type failingExtractor struct{}

func (failingExtractor) Extract(context.Context, string) (string, bool, error) {
	return "", false, errors.New("extractor down")
}

func TestExtractOrSentinelPropagatesFailure(t *testing.T) {
	_, err := ExtractOrSentinel(context.Background(), failingExtractor{}, "tomorrow")
	assert.Error(t, err)
}
