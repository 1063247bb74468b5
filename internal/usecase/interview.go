package usecase

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/ai"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/observability"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/interview"
)

// Feedback substituted when the reasoning service returns fewer than 20
// characters of feedback.
const defaultFeedback = "Your answer needs more detail and specific examples to demonstrate your knowledge."

// minFeedbackLen and minQuestionLen are the repair thresholds for model
// output.
const (
	minFeedbackLen = 20
	minQuestionLen = 10
)

// SessionCompleter finishes a session when the interview terminates.
type SessionCompleter interface {
	Complete(ctx domain.Context, id string) error
}

// InterviewService is the turn engine. It evaluates each answer, produces
// the next question, and degrades to the deterministic path when the
// reasoning service fails. A degraded session stays degraded until an
// explicit health re-check clears it.
type InterviewService struct {
	Sessions  domain.SessionRepository
	Turns     domain.TurnRepository
	AI        domain.AIClient
	Synth     domain.Synthesizer
	Lifecycle SessionCompleter

	Count           interview.TokenCounter
	TokenBudget     int
	AnswerMaxTokens int
	MaxStages       int

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewInterviewService constructs the turn engine.
func NewInterviewService(s domain.SessionRepository, t domain.TurnRepository, aicl domain.AIClient, synth domain.Synthesizer, lifecycle SessionCompleter, count interview.TokenCounter, tokenBudget, answerMaxTokens, maxStages int) *InterviewService {
	if maxStages <= 0 {
		maxStages = interview.DefaultMaxStages
	}
	return &InterviewService{
		Sessions:        s,
		Turns:           t,
		AI:              aicl,
		Synth:           synth,
		Lifecycle:       lifecycle,
		Count:           count,
		TokenBudget:     tokenBudget,
		AnswerMaxTokens: answerMaxTokens,
		MaxStages:       maxStages,
		inflight:        make(map[string]struct{}),
	}
}

// TurnOutcome is the result of one processed answer.
type TurnOutcome struct {
	Stage        int
	Score        int
	Feedback     string
	NextQuestion string
	AudioURL     string
	Done         bool
}

// ProcessTurn evaluates one answered question. The reasoning path never
// surfaces its errors to the caller; any failure permanently flips the
// session to the deterministic path and the turn is served from there.
// Errors are returned only for invalid sessions and storage failures.
func (s *InterviewService) ProcessTurn(ctx domain.Context, sessionID, answer, audioPath string) (TurnOutcome, error) {
	if err := s.acquire(sessionID); err != nil {
		return TurnOutcome{}, err
	}
	defer s.release(sessionID)

	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return TurnOutcome{}, err
	}
	if sess.Status != domain.SessionActive {
		return TurnOutcome{}, fmt.Errorf("%w: session not active", domain.ErrConflict)
	}

	history, err := s.Turns.ListBySession(ctx, sessionID)
	if err != nil {
		return TurnOutcome{}, err
	}
	stage := len(history) + 1

	current := sess.CurrentQuestion
	if current == "" {
		current = interview.OpeningQuestion(sess.Topic)
	}

	result := s.evaluate(ctx, sess, current, answer, history, stage)

	done := stage >= s.MaxStages || interview.IsClosingSignal(result.NextQuestion)

	if _, err := s.Turns.Append(ctx, domain.Turn{
		SessionID: sessionID,
		Question:  current,
		Answer:    answer,
		Score:     result.Score,
		Feedback:  result.Feedback,
		AudioPath: audioPath,
	}); err != nil {
		return TurnOutcome{}, err
	}
	observability.TurnScoreHistogram.Observe(float64(result.Score))

	outcome := TurnOutcome{
		Stage:    stage,
		Score:    result.Score,
		Feedback: result.Feedback,
		Done:     done,
	}
	if done {
		observability.SessionTurnsHistogram.Observe(float64(stage))
		if err := s.Lifecycle.Complete(ctx, sessionID); err != nil {
			return TurnOutcome{}, err
		}
		return outcome, nil
	}

	if err := s.Sessions.SetCurrentQuestion(ctx, sessionID, result.NextQuestion); err != nil {
		return TurnOutcome{}, err
	}
	outcome.NextQuestion = result.NextQuestion
	outcome.AudioURL = synthesizeBestEffort(ctx, s.Synth, result.NextQuestion)
	return outcome, nil
}

// evaluate runs the reasoning path when the session is healthy and falls
// back to the deterministic path on any failure.
func (s *InterviewService) evaluate(ctx domain.Context, sess domain.Session, current, answer string, history []domain.Turn, stage int) domain.EvaluationResult {
	category := interview.Classify(sess.Topic)

	if sess.FallbackOnly {
		return s.offline(sess.Topic, category, answer, stage)
	}

	msgs := interview.BuildContext(answer, current, sess.Topic, history, s.TokenBudget, s.Count)
	raw, err := s.AI.ChatJSON(ctx, msgs, s.AnswerMaxTokens)
	if err != nil {
		return s.degrade(ctx, sess, category, answer, stage, "chat", err)
	}
	parsed, err := ai.ParseEvaluation(raw)
	if err != nil {
		return s.degrade(ctx, sess, category, answer, stage, "parse", err)
	}
	return s.sanitize(sess.Topic, parsed, stage)
}

// degrade flips the persisted per-session flag and serves the turn from
// the deterministic path.
func (s *InterviewService) degrade(ctx domain.Context, sess domain.Session, category domain.RoleCategory, answer string, stage int, reason string, cause error) domain.EvaluationResult {
	slog.Warn("reasoning service failed, session degraded",
		slog.String("session_id", sess.ID),
		slog.String("reason", reason),
		slog.Any("error", cause))
	observability.FallbackActivationsTotal.WithLabelValues(reason).Inc()
	if err := s.Sessions.SetFallbackOnly(ctx, sess.ID, true); err != nil {
		slog.Error("failed to persist degraded flag",
			slog.String("session_id", sess.ID), slog.Any("error", err))
	}
	return s.offline(sess.Topic, category, answer, stage)
}

func (s *InterviewService) offline(topic string, category domain.RoleCategory, answer string, stage int) domain.EvaluationResult {
	score, feedback := interview.EvaluateOffline(answer, category)
	return domain.EvaluationResult{
		Score:        score,
		Feedback:     feedback,
		NextQuestion: interview.FallbackQuestion(topic, stage+1),
	}
}

// sanitize repairs model output so every field is usable: the score is
// clamped to [1,10] (5 when absent), short feedback is replaced with a
// fixed sentence, and a short next question is served from the bank.
func (s *InterviewService) sanitize(topic string, parsed ai.TurnResult, stage int) domain.EvaluationResult {
	score := parsed.Score
	if !parsed.ScorePresent {
		score = 5
	}
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}
	feedback := parsed.Feedback
	if len(feedback) < minFeedbackLen {
		feedback = defaultFeedback
	}
	next := parsed.NextQuestion
	if len(next) < minQuestionLen {
		next = interview.FallbackQuestion(topic, stage+1)
	}
	return domain.EvaluationResult{Score: score, Feedback: feedback, NextQuestion: next}
}

// acquire takes the per-session in-flight guard. A second concurrent turn
// for the same session gets ErrConflict rather than interleaved writes.
func (s *InterviewService) acquire(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[sessionID]; busy {
		return fmt.Errorf("%w: turn already in flight", domain.ErrConflict)
	}
	s.inflight[sessionID] = struct{}{}
	return nil
}

func (s *InterviewService) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, sessionID)
}
