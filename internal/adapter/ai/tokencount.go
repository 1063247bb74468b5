package ai

import (
	"log/slog"
	"strings"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/interview"
)

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// NewTokenCounter returns a counter for the given model, used to budget
// the evaluation context. The tiktoken encoding is resolved once; if it
// cannot be loaded the counter degrades to the four-chars-per-token
// heuristic.
func NewTokenCounter(model string) interview.TokenCounter {
	encodingOnce.Do(func() {
		enc, err := tiktoken.EncodingForModel(normalizeModelName(model))
		if err != nil {
			enc, err = tiktoken.GetEncoding("cl100k_base")
		}
		if err != nil {
			slog.Warn("tiktoken encoding unavailable, using heuristic token counts", slog.Any("error", err))
			return
		}
		encoding = enc
	})
	if encoding == nil {
		return interview.HeuristicTokens
	}
	enc := encoding
	return func(text string) int {
		return len(enc.Encode(text, nil, nil))
	}
}

// normalizeModelName converts provider-prefixed model IDs to
// tiktoken-compatible names. Non-OpenAI model families tokenize close
// enough to cl100k_base for budgeting purposes.
func normalizeModelName(model string) string {
	model = strings.ToLower(model)
	if i := strings.LastIndex(model, "/"); i >= 0 {
		model = model[i+1:]
	}
	model = strings.TrimSuffix(model, ":free")
	switch {
	case strings.Contains(model, "gpt-3.5"):
		return "gpt-3.5-turbo"
	default:
		return "gpt-4"
	}
}
