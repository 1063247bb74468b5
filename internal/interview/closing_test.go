package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsClosingSignal(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     bool
	}{
		{"concludes", "That concludes our interview for today.", true},
		{"thank you for your time", "Thank You For Your Time - do you have any questions for us?", true},
		{"plain question", "How do you debug your code?", false},
		{"thanks alone", "Thank you, that's interesting. Can you expand on it?", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsClosingSignal(tt.question))
		})
	}
}

func TestShouldEnd(t *testing.T) {
	// Hard cap alone ends the interview.
	assert.True(t, ShouldEnd(12, "How do you handle feedback?"))
	assert.True(t, ShouldEnd(13, "How do you handle feedback?"))

	// Closing phrase alone ends it, even early.
	assert.True(t, ShouldEnd(3, "This concludes the technical portion."))

	// Neither signal: keep going.
	assert.False(t, ShouldEnd(11, "What are your strengths?"))
	assert.False(t, ShouldEnd(1, "Tell me about yourself."))
}
