package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

func TestTurnAppendAssignsSequence(t *testing.T) {
	pool := &poolStub{execTag: pgconn.NewCommandTag("INSERT 0 1")}
	repo := NewTurnRepo(pool)

	id, err := repo.Append(context.Background(), domain.Turn{
		SessionID: "sid",
		Question:  "Tell me about yourself.",
		Answer:    "I build backend services.",
		Score:     6,
		Feedback:  "Good length.",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Contains(t, pool.lastSQL, "COALESCE(MAX(seq),0)+1")
	assert.Equal(t, "sid", pool.lastArgs[1])
}

func TestTurnAppendKeepsID(t *testing.T) {
	pool := &poolStub{execTag: pgconn.NewCommandTag("INSERT 0 1")}
	repo := NewTurnRepo(pool)

	id, err := repo.Append(context.Background(), domain.Turn{ID: "turn-1", SessionID: "sid"})
	require.NoError(t, err)
	assert.Equal(t, "turn-1", id)
}

func TestTurnAppendError(t *testing.T) {
	pool := &poolStub{execErr: errors.New("boom")}
	repo := NewTurnRepo(pool)

	_, err := repo.Append(context.Background(), domain.Turn{SessionID: "sid"})
	assert.ErrorContains(t, err, "op=turn.append")
}

func TestTurnListError(t *testing.T) {
	pool := &poolStub{queryErr: errors.New("boom")}
	repo := NewTurnRepo(pool)

	_, err := repo.ListBySession(context.Background(), "sid")
	assert.ErrorContains(t, err, "op=turn.list")
	assert.Contains(t, pool.lastSQL, "ORDER BY seq")
}
