package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// TurnRepo persists question/answer turns.
type TurnRepo struct{ Pool PgxPool }

// NewTurnRepo constructs a TurnRepo with the given pool.
func NewTurnRepo(p PgxPool) *TurnRepo { return &TurnRepo{Pool: p} }

// Append inserts the next turn for a session. The sequence number is
// assigned in the insert so it stays gapless under concurrent writers.
func (r *TurnRepo) Append(ctx domain.Context, t domain.Turn) (string, error) {
	tracer := otel.Tracer("repo.turns")
	ctx, span := tracer.Start(ctx, "turns.Append")
	defer span.End()
	id := t.ID
	if id == "" {
		id = uuid.New().String()
	}
	q := `INSERT INTO turns (id, session_id, seq, question, answer, score, feedback, audio_path, created_at)
VALUES ($1, $2, (SELECT COALESCE(MAX(seq),0)+1 FROM turns WHERE session_id=$2), $3, $4, $5, $6, $7, $8)`
	_, err := r.Pool.Exec(ctx, q, id, t.SessionID, t.Question, t.Answer, t.Score, t.Feedback, t.AudioPath, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("op=turn.append: %w", err)
	}
	return id, nil
}

// ListBySession returns all turns of a session in sequence order.
func (r *TurnRepo) ListBySession(ctx domain.Context, sessionID string) ([]domain.Turn, error) {
	tracer := otel.Tracer("repo.turns")
	ctx, span := tracer.Start(ctx, "turns.ListBySession")
	defer span.End()
	q := `SELECT id, session_id, seq, question, answer, score, feedback, audio_path, created_at
FROM turns WHERE session_id=$1 ORDER BY seq`
	rows, err := r.Pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("op=turn.list: %w", err)
	}
	defer rows.Close()

	var turns []domain.Turn
	for rows.Next() {
		var t domain.Turn
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Seq, &t.Question, &t.Answer, &t.Score, &t.Feedback, &t.AudioPath, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("op=turn.list: scan: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("op=turn.list: %w", err)
	}
	return turns, nil
}
