package stub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/ai"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/interview"
)

func TestStubTurnEvaluation(t *testing.T) {
	c := New()
	out, err := c.ChatJSON(context.Background(), []domain.ChatMessage{
		{Role: domain.ChatRoleSystem, Content: "You are a senior technical interviewer"},
		{Role: domain.ChatRoleUser, Content: "short answer"},
	}, 0)
	require.NoError(t, err)

	res, err := ai.ParseEvaluation(out)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Score)
	assert.GreaterOrEqual(t, len(res.Feedback), 20)
	assert.GreaterOrEqual(t, len(res.NextQuestion), 10)
}

func TestStubReport(t *testing.T) {
	c := New()
	out, err := c.ChatJSON(context.Background(), []domain.ChatMessage{
		{Role: domain.ChatRoleSystem, Content: interview.ReportSystemPrompt},
		{Role: domain.ChatRoleUser, Content: "transcript"},
	}, 0)
	require.NoError(t, err)

	r, err := ai.ParseReport(out)
	require.NoError(t, err)
	assert.Equal(t, 7, r.InterviewSkills)
	assert.Equal(t, "Needs Practice", r.ReadinessLevel)
}

func TestStubPing(t *testing.T) {
	assert.NoError(t, New().Ping(context.Background()))
}
