// Package stub provides a deterministic in-process reasoning service for
// development and tests. It never fails and needs no network.
package stub

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// Client implements domain.AIClient with canned, input-derived responses.
type Client struct{}

// New constructs a stub client.
func New() *Client { return &Client{} }

// ChatJSON fabricates a response for the request type implied by the
// system prompt: report prompts get the three-analysis document, anything
// else gets a turn evaluation.
func (c *Client) ChatJSON(_ domain.Context, messages []domain.ChatMessage, _ int) (string, error) {
	if len(messages) > 0 && strings.Contains(messages[0].Content, "Interview Evaluator") {
		return reportJSON, nil
	}
	return turnJSON(messages), nil
}

// Ping always succeeds.
func (c *Client) Ping(_ domain.Context) error { return nil }

func turnJSON(messages []domain.ChatMessage) string {
	// Longer answers score better, which is enough signal for dev flows.
	answer := ""
	if len(messages) > 0 {
		answer = messages[len(messages)-1].Content
	}
	score := 5
	if len(strings.Fields(answer)) > 60 {
		score = 7
	}
	return fmt.Sprintf(`{"feedback":"Good effort. You addressed the question and kept a clear structure; add a concrete example from a project to strengthen your answer.","score":%d,"next_question":"Can you walk me through a project you are proud of and the main challenge you solved?"}`, score)
}

const reportJSON = `{
  "interview_performance": {
    "strengths": ["Consistent engagement throughout", "Clear sentence structure"],
    "weaknesses": ["Answers could use more concrete examples"],
    "improvement_tips": ["Use the STAR method", "Prepare two project stories in advance"]
  },
  "grammar_analysis": {
    "grammar_score": 8,
    "vocabulary_level": "Intermediate",
    "common_issues": ["Occasional filler words"],
    "improvement_suggestions": ["Pause instead of using fillers"]
  },
  "overall_evaluation": {
    "interview_skills_score": 7,
    "grammar_skills_score": 8,
    "confidence_score": 7,
    "overall_score": 7.3,
    "final_verdict": "A solid practice session with room to grow in specificity.",
    "readiness_level": "Needs Practice",
    "improvement_roadmap": ["Practice aloud daily", "Record and review answers"]
  }
}`
