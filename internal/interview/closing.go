package interview

import "strings"

// DefaultMaxStages is the hard cap on interview length. The twelfth
// question is always a wrap-up.
const DefaultMaxStages = 12

var closingPhrases = []string{
	"concludes",
	"thank you for your time",
}

// IsClosingSignal reports whether a question reads as the interviewer
// wrapping up. Case-insensitive phrase containment; this is the soft
// termination signal alongside the hard stage cap.
func IsClosingSignal(question string) bool {
	lower := strings.ToLower(question)
	for _, p := range closingPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// ShouldEnd applies the dual termination policy: the session completes
// once the stage cap is reached or the emitted question carries closing
// intent. Either signal alone is sufficient.
func ShouldEnd(stage int, nextQuestion string) bool {
	return stage >= DefaultMaxStages || IsClosingSignal(nextQuestion)
}
