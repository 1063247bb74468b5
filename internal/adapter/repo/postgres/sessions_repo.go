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

// SessionRepo persists interview sessions.
type SessionRepo struct{ Pool PgxPool }

// NewSessionRepo constructs a SessionRepo with the given pool.
func NewSessionRepo(p PgxPool) *SessionRepo { return &SessionRepo{Pool: p} }

// Create inserts a new session and returns its id.
func (r *SessionRepo) Create(ctx domain.Context, s domain.Session) (string, error) {
	tracer := otel.Tracer("repo.sessions")
	ctx, span := tracer.Start(ctx, "sessions.Create")
	defer span.End()
	id := s.ID
	if id == "" {
		id = uuid.New().String()
	}
	startedAt := s.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}
	q := `INSERT INTO sessions (id, topic, status, fallback_only, current_question, started_at) VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.Pool.Exec(ctx, q, id, s.Topic, s.Status, s.FallbackOnly, s.CurrentQuestion, startedAt)
	if err != nil {
		return "", fmt.Errorf("op=session.create: %w", err)
	}
	return id, nil
}

// Get loads a session by id.
func (r *SessionRepo) Get(ctx domain.Context, id string) (domain.Session, error) {
	tracer := otel.Tracer("repo.sessions")
	ctx, span := tracer.Start(ctx, "sessions.Get")
	defer span.End()
	q := `SELECT id, topic, status, fallback_only, current_question, started_at, ended_at FROM sessions WHERE id=$1`
	var s domain.Session
	err := r.Pool.QueryRow(ctx, q, id).Scan(&s.ID, &s.Topic, &s.Status, &s.FallbackOnly, &s.CurrentQuestion, &s.StartedAt, &s.EndedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Session{}, fmt.Errorf("op=session.get: %w", domain.ErrNotFound)
		}
		return domain.Session{}, fmt.Errorf("op=session.get: %w", err)
	}
	return s, nil
}

// SetFallbackOnly flips the per-session degraded flag.
func (r *SessionRepo) SetFallbackOnly(ctx domain.Context, id string, fallbackOnly bool) error {
	tracer := otel.Tracer("repo.sessions")
	ctx, span := tracer.Start(ctx, "sessions.SetFallbackOnly")
	defer span.End()
	q := `UPDATE sessions SET fallback_only=$2 WHERE id=$1`
	tag, err := r.Pool.Exec(ctx, q, id, fallbackOnly)
	if err != nil {
		return fmt.Errorf("op=session.set_fallback_only: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=session.set_fallback_only: %w", domain.ErrNotFound)
	}
	return nil
}

// SetCurrentQuestion advances the pending question for a session.
func (r *SessionRepo) SetCurrentQuestion(ctx domain.Context, id string, question string) error {
	tracer := otel.Tracer("repo.sessions")
	ctx, span := tracer.Start(ctx, "sessions.SetCurrentQuestion")
	defer span.End()
	q := `UPDATE sessions SET current_question=$2 WHERE id=$1`
	tag, err := r.Pool.Exec(ctx, q, id, question)
	if err != nil {
		return fmt.Errorf("op=session.set_current_question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=session.set_current_question: %w", domain.ErrNotFound)
	}
	return nil
}

// UpdateStatus moves a session through its lifecycle. Completion and
// cancellation stamp ended_at.
func (r *SessionRepo) UpdateStatus(ctx domain.Context, id string, status domain.SessionStatus) error {
	tracer := otel.Tracer("repo.sessions")
	ctx, span := tracer.Start(ctx, "sessions.UpdateStatus")
	defer span.End()
	q := `UPDATE sessions SET status=$2, ended_at=CASE WHEN $2 IN ('completed','canceled') THEN now() ELSE ended_at END WHERE id=$1`
	tag, err := r.Pool.Exec(ctx, q, id, status)
	if err != nil {
		return fmt.Errorf("op=session.update_status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=session.update_status: %w", domain.ErrNotFound)
	}
	return nil
}
