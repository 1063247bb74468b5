package ai

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// TurnResult is the raw evaluation extracted from a model response before
// the engine sanitizes it. Score keeps whatever the model said; clamping
// happens downstream so out-of-range values are observable.
type TurnResult struct {
	Feedback     string
	Score        int
	ScorePresent bool
	NextQuestion string
}

// ParseEvaluation extracts {feedback, score, next_question} from a model
// response. The response is cleaned first; anything that still is not a
// JSON object yields ErrSchemaInvalid. Missing fields are not an error;
// the engine repairs them.
func ParseEvaluation(raw string) (TurnResult, error) {
	cleaned := CleanJSON(raw)
	if !gjson.Valid(cleaned) || !gjson.Parse(cleaned).IsObject() {
		return TurnResult{}, fmt.Errorf("op=ai.ParseEvaluation: %w", domain.ErrSchemaInvalid)
	}
	var res TurnResult
	res.Feedback = gjson.Get(cleaned, "feedback").String()
	if s := gjson.Get(cleaned, "score"); s.Exists() {
		res.Score = int(s.Int())
		res.ScorePresent = true
	}
	res.NextQuestion = gjson.Get(cleaned, "next_question").String()
	return res, nil
}

// ParseReport extracts the three report analyses from a model response.
// The top-level sections must be present; list fields degrade to empty.
func ParseReport(raw string) (domain.Report, error) {
	cleaned := CleanJSON(raw)
	if !gjson.Valid(cleaned) || !gjson.Parse(cleaned).IsObject() {
		return domain.Report{}, fmt.Errorf("op=ai.ParseReport: %w", domain.ErrSchemaInvalid)
	}
	overall := gjson.Get(cleaned, "overall_evaluation")
	grammar := gjson.Get(cleaned, "grammar_analysis")
	perf := gjson.Get(cleaned, "interview_performance")
	if !overall.Exists() || !grammar.Exists() || !perf.Exists() {
		return domain.Report{}, fmt.Errorf("op=ai.ParseReport: missing analysis section: %w", domain.ErrSchemaInvalid)
	}

	r := domain.Report{
		Status:             domain.ReportCompleted,
		Strengths:          stringList(perf.Get("strengths")),
		Weaknesses:         stringList(perf.Get("weaknesses")),
		ImprovementTips:    stringList(perf.Get("improvement_tips")),
		GrammarScore:       int(grammar.Get("grammar_score").Int()),
		VocabularyLevel:    grammar.Get("vocabulary_level").String(),
		CommonIssues:       stringList(grammar.Get("common_issues")),
		GrammarSuggestions: stringList(grammar.Get("improvement_suggestions")),
		InterviewSkills:    int(overall.Get("interview_skills_score").Int()),
		GrammarSkills:      int(overall.Get("grammar_skills_score").Int()),
		ConfidenceScore:    int(overall.Get("confidence_score").Int()),
		OverallScore:       overall.Get("overall_score").Float(),
		FinalVerdict:       overall.Get("final_verdict").String(),
		ReadinessLevel:     overall.Get("readiness_level").String(),
		ImprovementRoadmap: stringList(overall.Get("improvement_roadmap")),
	}
	return r, nil
}

func stringList(v gjson.Result) []string {
	if !v.IsArray() {
		return nil
	}
	arr := v.Array()
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s := e.String(); s != "" {
			out = append(out, s)
		}
	}
	return out
}
