package interview

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

//go:embed bank.yaml
var bankYAML []byte

type bankData struct {
	SoftwareDevelopment map[string][]string `yaml:"software_development"`
	Categories          map[string][]string `yaml:"categories"`
	Keywords            map[string][]string `yaml:"keywords"`
}

var bank bankData

func init() {
	if err := yaml.Unmarshal(bankYAML, &bank); err != nil {
		panic(fmt.Sprintf("interview: bad embedded bank.yaml: %v", err))
	}
}

// FallbackQuestion returns the scripted question for the given 1-based
// stage. Stages past the end of a list clamp to the last entry, which is
// always a wrap-up question. For Software Development topics the language
// mentioned in the topic selects a specialized sub-bank.
func FallbackQuestion(topic string, stage int) string {
	list := questionList(topic)
	idx := stage - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(list) {
		idx = len(list) - 1
	}
	return strings.ReplaceAll(list[idx], "{topic}", topic)
}

func questionList(topic string) []string {
	t := strings.ToLower(topic)
	// A named language beats the category lookup. "javascript" is checked
	// before "java" so it does not hit the java bank by substring.
	switch {
	case strings.Contains(t, "python"):
		return bank.SoftwareDevelopment["python"]
	case strings.Contains(t, "javascript"), strings.Contains(t, "js"):
		return bank.SoftwareDevelopment["javascript"]
	case strings.Contains(t, "java"):
		return bank.SoftwareDevelopment["java"]
	}
	if list, ok := bank.Categories[string(Classify(topic))]; ok {
		return list
	}
	// General Technical and language-less Software Development topics share
	// the generic software list, which is topic-parameterized.
	return bank.SoftwareDevelopment["general"]
}

// TechnicalKeywords returns the lexicon used by the offline evaluator to
// detect domain vocabulary in an answer. Unknown categories get an empty
// lexicon, never a nil-map panic.
func TechnicalKeywords(category domain.RoleCategory) []string {
	return bank.Keywords[string(category)]
}
