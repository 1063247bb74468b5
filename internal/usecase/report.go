package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/ai"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/observability"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/interview"
)

// ReportService builds reports on the worker and serves them to the API.
type ReportService struct {
	Sessions domain.SessionRepository
	Turns    domain.TurnRepository
	Reports  domain.ReportRepository
	AI       domain.AIClient

	ReportMaxTokens int
}

// NewReportService constructs a ReportService with its dependencies.
func NewReportService(s domain.SessionRepository, t domain.TurnRepository, r domain.ReportRepository, aicl domain.AIClient, reportMaxTokens int) ReportService {
	return ReportService{Sessions: s, Turns: t, Reports: r, AI: aicl, ReportMaxTokens: reportMaxTokens}
}

// Build generates and stores the report for a finished session. The
// reasoning path analyzes the full transcript in one call; any failure
// falls back to the deterministic report, so Build only errors on storage.
func (s ReportService) Build(ctx domain.Context, sessionID, topic string) error {
	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if topic == "" {
		topic = sess.Topic
	}
	if err := s.Reports.Upsert(ctx, domain.Report{
		SessionID: sessionID,
		Status:    domain.ReportProcessing,
	}); err != nil {
		return err
	}

	turns, err := s.Turns.ListBySession(ctx, sessionID)
	if err != nil {
		return err
	}

	rep := s.generate(ctx, sess, topic, turns)
	rep.SessionID = sessionID
	if err := s.Reports.Upsert(ctx, rep); err != nil {
		return err
	}
	slog.Info("report stored",
		slog.String("session_id", sessionID),
		slog.String("status", string(rep.Status)),
		slog.Float64("overall_score", rep.OverallScore))
	return nil
}

// MarkFailed records a build failure on the report row so Fetch can
// surface it instead of leaving the job in processing.
func (s ReportService) MarkFailed(ctx domain.Context, sessionID, reason string) error {
	return s.Reports.Upsert(ctx, domain.Report{
		SessionID: sessionID,
		Status:    domain.ReportFailed,
		Error:     reason,
	})
}

func (s ReportService) generate(ctx domain.Context, sess domain.Session, topic string, turns []domain.Turn) domain.Report {
	now := time.Now().UTC()

	if !sess.FallbackOnly {
		rep, err := s.analyze(ctx, topic, turns)
		if err == nil {
			rep.TotalQuestions = len(turns)
			rep.AverageScore = interview.Round1(interview.AverageScore(turns))
			rep.OverallScore = interview.Round1(rep.OverallScore)
			rep.GeneratedAt = now
			return rep
		}
		slog.Warn("report analysis failed, using deterministic report",
			slog.String("session_id", sess.ID), slog.Any("error", err))
		observability.FallbackActivationsTotal.WithLabelValues("report").Inc()
	}

	return interview.FallbackReport(topic, turns, now)
}

func (s ReportService) analyze(ctx domain.Context, topic string, turns []domain.Turn) (domain.Report, error) {
	msgs := []domain.ChatMessage{
		{Role: domain.ChatRoleSystem, Content: interview.ReportSystemPrompt},
		{Role: domain.ChatRoleUser, Content: interview.TranscriptSummary(topic, turns)},
	}
	raw, err := s.AI.ChatJSON(ctx, msgs, s.ReportMaxTokens)
	if err != nil {
		return domain.Report{}, err
	}
	return ai.ParseReport(raw)
}

// Fetch returns the HTTP status, response body, and ETag for a session's
// report, with conditional responses on If-None-Match. Non-completed
// states return a bare {session_id, status} envelope.
func (s ReportService) Fetch(ctx domain.Context, sessionID, ifNoneMatch string) (int, map[string]any, string, error) {
	rep, err := s.Reports.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// The session may exist with no report queued yet.
			if _, serr := s.Sessions.Get(ctx, sessionID); serr != nil {
				return http.StatusNotFound, nil, "", fmt.Errorf("%w: session not found", domain.ErrNotFound)
			}
			m := map[string]any{"session_id": sessionID, "status": "none"}
			return conditional(m, ifNoneMatch)
		}
		return http.StatusInternalServerError, nil, "", err
	}

	if rep.Status != domain.ReportCompleted {
		m := map[string]any{"session_id": sessionID, "status": string(rep.Status)}
		if rep.Status == domain.ReportFailed && rep.Error != "" {
			m["error"] = rep.Error
		}
		return conditional(m, ifNoneMatch)
	}

	m := map[string]any{
		"session_id": sessionID,
		"status":     string(rep.Status),
		"report": map[string]any{
			"interview_performance": map[string]any{
				"strengths":        rep.Strengths,
				"weaknesses":       rep.Weaknesses,
				"improvement_tips": rep.ImprovementTips,
			},
			"grammar_analysis": map[string]any{
				"grammar_score":           rep.GrammarScore,
				"vocabulary_level":        rep.VocabularyLevel,
				"common_issues":           rep.CommonIssues,
				"improvement_suggestions": rep.GrammarSuggestions,
			},
			"overall_evaluation": map[string]any{
				"interview_skills_score": rep.InterviewSkills,
				"grammar_skills_score":   rep.GrammarSkills,
				"confidence_score":       rep.ConfidenceScore,
				"overall_score":          rep.OverallScore,
				"final_verdict":          rep.FinalVerdict,
				"readiness_level":        rep.ReadinessLevel,
				"improvement_roadmap":    rep.ImprovementRoadmap,
			},
			"total_questions": rep.TotalQuestions,
			"average_score":   rep.AverageScore,
			"generated_at":    rep.GeneratedAt.UTC().Format(time.RFC3339),
		},
	}
	return conditional(m, ifNoneMatch)
}

func conditional(m map[string]any, ifNoneMatch string) (int, map[string]any, string, error) {
	etag := makeETag(m)
	if etag == ifNoneMatch {
		return http.StatusNotModified, nil, etag, nil
	}
	return http.StatusOK, m, etag, nil
}

func makeETag(v any) string {
	b, _ := json.Marshal(v)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
