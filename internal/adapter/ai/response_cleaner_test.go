package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "already valid",
			in:   `{"score": 7}`,
			want: `{"score": 7}`,
		},
		{
			name: "markdown fence",
			in:   "```json\n{\"score\": 7}\n```",
			want: `{"score": 7}`,
		},
		{
			name: "prose around object",
			in:   `Here is my evaluation: {"score": 7} Hope that helps!`,
			want: `{"score": 7}`,
		},
		{
			name: "trailing comma",
			in:   `{"score": 7,}`,
			want: `{"score": 7}`,
		},
		{
			name: "nested objects extracted whole",
			in:   `preamble {"a": {"b": 1}, "c": 2} trailing`,
			want: `{"a": {"b": 1}, "c": 2}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanJSON(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsValidJSON(got))
		})
	}
}

func TestCleanJSONBracesInsideStrings(t *testing.T) {
	in := `{"feedback": "use {braces} carefully", "score": 6}`
	got := CleanJSON(in)
	assert.Equal(t, in, got)
}

func TestCleanJSONUnrecoverable(t *testing.T) {
	got := CleanJSON("the model refused to answer")
	assert.False(t, IsValidJSON(got))
}
