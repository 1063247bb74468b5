// Package usecase contains application business logic services.
package usecase

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/interview"
)

// SessionService manages the interview session lifecycle.
type SessionService struct {
	Sessions domain.SessionRepository
	Turns    domain.TurnRepository
	Reports  domain.ReportRepository
	Queue    domain.Queue
	Synth    domain.Synthesizer
}

// NewSessionService constructs a SessionService with its dependencies.
func NewSessionService(s domain.SessionRepository, t domain.TurnRepository, r domain.ReportRepository, q domain.Queue, synth domain.Synthesizer) SessionService {
	return SessionService{Sessions: s, Turns: t, Reports: r, Queue: q, Synth: synth}
}

// StartResult is returned when a session begins.
type StartResult struct {
	SessionID string
	Category  domain.RoleCategory
	Question  string
	AudioURL  string
}

// Start creates a session and returns the role-specific opening question.
func (s SessionService) Start(ctx domain.Context, topic string) (StartResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return StartResult{}, fmt.Errorf("%w: topic required", domain.ErrInvalidArgument)
	}

	category := interview.Classify(topic)
	opening := interview.OpeningQuestion(topic)

	id, err := s.Sessions.Create(ctx, domain.Session{
		Topic:           topic,
		Status:          domain.SessionActive,
		CurrentQuestion: opening,
		StartedAt:       time.Now().UTC(),
	})
	if err != nil {
		return StartResult{}, err
	}

	slog.Info("session started",
		slog.String("session_id", id),
		slog.String("topic", topic),
		slog.String("category", string(category)))

	return StartResult{
		SessionID: id,
		Category:  category,
		Question:  opening,
		AudioURL:  synthesizeBestEffort(ctx, s.Synth, opening),
	}, nil
}

// Complete finishes a session and enqueues its report build. Completing an
// already-completed session is a no-op so retries stay safe.
func (s SessionService) Complete(ctx domain.Context, id string) error {
	sess, err := s.Sessions.Get(ctx, id)
	if err != nil {
		return err
	}
	if sess.Status == domain.SessionCompleted {
		return nil
	}
	if sess.Status == domain.SessionCanceled {
		return fmt.Errorf("%w: session canceled", domain.ErrConflict)
	}
	if err := s.Sessions.UpdateStatus(ctx, id, domain.SessionCompleted); err != nil {
		return err
	}
	return s.enqueueReport(ctx, sess)
}

// Cancel abandons an active session. No report is generated.
func (s SessionService) Cancel(ctx domain.Context, id string) error {
	sess, err := s.Sessions.Get(ctx, id)
	if err != nil {
		return err
	}
	if sess.Status != domain.SessionActive {
		return fmt.Errorf("%w: session not active", domain.ErrConflict)
	}
	return s.Sessions.UpdateStatus(ctx, id, domain.SessionCanceled)
}

func (s SessionService) enqueueReport(ctx domain.Context, sess domain.Session) error {
	if err := s.Reports.Upsert(ctx, domain.Report{
		SessionID: sess.ID,
		Status:    domain.ReportQueued,
	}); err != nil {
		return err
	}
	if _, err := s.Queue.EnqueueReport(ctx, domain.ReportTaskPayload{
		SessionID: sess.ID,
		Topic:     sess.Topic,
	}); err != nil {
		return fmt.Errorf("op=session.complete: enqueue report: %w", err)
	}
	return nil
}

// synthesizeBestEffort turns question text into audio. Failures are logged
// and yield an empty URL; a missing voice must never block the interview.
func synthesizeBestEffort(ctx domain.Context, synth domain.Synthesizer, text string) string {
	if synth == nil || text == "" {
		return ""
	}
	url, err := synth.Synthesize(ctx, text)
	if err != nil {
		slog.Warn("question synthesis failed", slog.Any("error", err))
		return ""
	}
	return url
}
