package interview

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// ReportSystemPrompt instructs the reasoning service to produce the three
// analyses (performance, grammar, overall) as one JSON document.
const ReportSystemPrompt = `You are a professional AI Interview Evaluator and Communication Coach.

Analyze a complete mock interview and produce THREE independent analyses:

1. INTERVIEW PERFORMANCE ANALYSIS: relevance, clarity, confidence, structure, professionalism; strengths, weaknesses, actionable improvement tips.
2. GRAMMAR & LANGUAGE SKILLS ANALYSIS: grammar accuracy, sentence structure, vocabulary quality; repeated and filler words; grammar score (0-10) and vocabulary level; specific suggestions.
3. OVERALL EVALUATION: interview skills score (0-10), grammar skills score (0-10), confidence score (0-10), overall score (average), final verdict, interview readiness level, improvement roadmap.

Return ONLY valid JSON in this exact format:
{
    "interview_performance": {
        "strengths": ["..."],
        "weaknesses": ["..."],
        "improvement_tips": ["..."]
    },
    "grammar_analysis": {
        "grammar_score": 8,
        "vocabulary_level": "Intermediate",
        "common_issues": ["..."],
        "improvement_suggestions": ["..."]
    },
    "overall_evaluation": {
        "interview_skills_score": 7,
        "grammar_skills_score": 8,
        "confidence_score": 7,
        "overall_score": 7.3,
        "final_verdict": "...",
        "readiness_level": "Interview Ready / Needs Practice / Needs Significant Improvement",
        "improvement_roadmap": ["..."]
    }
}

Be professional, supportive, and provide actionable feedback. Never discourage the student.`

// TranscriptSummary renders the full session history for the report
// prompt. The aggregator sees every turn, not the evaluation window.
func TranscriptSummary(topic string, turns []domain.Turn) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Interview Topic: %s\n\nQuestions and Answers:\n\n", topic)
	for i, t := range turns {
		fmt.Fprintf(&b, "Q%d: %s\n", i+1, t.Question)
		fmt.Fprintf(&b, "A%d: %s\n", i+1, t.Answer)
		fmt.Fprintf(&b, "Score: %d/10\n", t.Score)
		fmt.Fprintf(&b, "Feedback: %s\n\n", t.Feedback)
	}
	return b.String()
}

// AverageScore returns the mean turn score, 0 for an empty session.
func AverageScore(turns []domain.Turn) float64 {
	if len(turns) == 0 {
		return 0
	}
	sum := 0
	for _, t := range turns {
		sum += t.Score
	}
	return float64(sum) / float64(len(turns))
}

// FallbackReport builds the deterministic report used when the reasoning
// service is unavailable. Grammar and confidence are fixed mid-range
// values; only the interview skills score tracks the actual turn scores.
func FallbackReport(topic string, turns []domain.Turn, now time.Time) domain.Report {
	avg := AverageScore(turns)
	return domain.Report{
		Status: domain.ReportCompleted,
		Strengths: []string{
			"Completed the interview",
			"Provided answers to all questions",
		},
		Weaknesses: []string{
			"Could improve answer clarity",
			"Could provide more detailed responses",
		},
		ImprovementTips: []string{
			"Practice common interview questions",
			"Structure your answers using STAR method",
			"Speak clearly and confidently",
		},
		GrammarScore:    7,
		VocabularyLevel: "Intermediate",
		CommonIssues: []string{
			"Minor grammatical errors",
			"Could use more professional vocabulary",
		},
		GrammarSuggestions: []string{
			"Read professional articles",
			"Practice speaking in English daily",
		},
		InterviewSkills: int(math.Round(avg)),
		GrammarSkills:   7,
		ConfidenceScore: 6,
		OverallScore:    Round1((avg + 7 + 6) / 3),
		FinalVerdict:    "You have completed the mock interview. Continue practicing to improve your confidence and communication skills.",
		ReadinessLevel:  domain.ReadinessNeedsWork,
		ImprovementRoadmap: []string{
			"Practice more mock interviews",
			"Work on communication skills",
			"Research common interview questions",
		},
		TotalQuestions: len(turns),
		AverageScore:   Round1(avg),
		GeneratedAt:    now,
	}
}

// Round1 rounds to one decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}
