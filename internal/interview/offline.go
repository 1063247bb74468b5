package interview

import (
	"strings"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// Feedback sentences emitted by the offline evaluator. One sentence per
// triggered rule, concatenated in rule order, then a score-tier closer.
const (
	fbTooBrief      = "Your answer is too brief and lacks detail."
	fbCouldBeMore   = "Your answer could be more detailed."
	fbGoodLength    = "Good answer length."
	fbExcellent     = "Excellent detailed response."
	fbGoodTech      = "You demonstrated good technical knowledge."
	fbMoreTech      = "Try to include more technical details."
	fbLacksDepth    = "Your answer lacks technical depth."
	fbGoodExamples  = "Good use of specific examples."
	fbNeedsExamples = "Consider providing specific examples from your experience."

	closerHigh = " Keep up this level of detail in your responses."
	closerMid  = " To improve, provide more specific examples and technical details."
	closerLow  = " Focus on answering the question directly with relevant details and examples."
)

var exampleIndicators = []string{
	"example", "instance", "project", "experience",
	"worked on", "built", "created", "developed",
}

// EvaluateOffline scores an answer without the reasoning service. Pure and
// deterministic: word-count bucket sets the base score, category vocabulary
// and example phrases adjust it, and the result is clamped to [1,10].
func EvaluateOffline(answer string, category domain.RoleCategory) (int, string) {
	words := strings.Fields(answer)
	var parts []string
	var score int

	switch n := len(words); {
	case n < 15:
		score = 3
		parts = append(parts, fbTooBrief)
	case n < 40:
		score = 5
		parts = append(parts, fbCouldBeMore)
	case n < 80:
		score = 6
		parts = append(parts, fbGoodLength)
	default:
		score = 7
		parts = append(parts, fbExcellent)
	}

	switch matches := countKeywords(words, TechnicalKeywords(category)); {
	case matches >= 3:
		score++
		parts = append(parts, fbGoodTech)
	case matches >= 1:
		parts = append(parts, fbMoreTech)
	default:
		score--
		parts = append(parts, fbLacksDepth)
	}

	if containsExample(answer) {
		score++
		parts = append(parts, fbGoodExamples)
	} else {
		parts = append(parts, fbNeedsExamples)
	}

	score = clampScore(score)

	feedback := strings.Join(parts, " ")
	switch {
	case score >= 7:
		feedback += closerHigh
	case score >= 5:
		feedback += closerMid
	default:
		feedback += closerLow
	}
	return score, feedback
}

// countKeywords counts answer tokens present in the lexicon. Matching is
// per token, so multi-word lexicon entries only contribute when a token
// equals the whole entry.
func countKeywords(words, lexicon []string) int {
	if len(lexicon) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(lexicon))
	for _, kw := range lexicon {
		set[kw] = struct{}{}
	}
	n := 0
	for _, w := range words {
		if _, ok := set[strings.ToLower(w)]; ok {
			n++
		}
	}
	return n
}

func containsExample(answer string) bool {
	lower := strings.ToLower(answer)
	for _, ind := range exampleIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}

func clampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}
