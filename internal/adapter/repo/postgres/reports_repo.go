package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// ReportRepo persists session reports, one row per session.
type ReportRepo struct{ Pool PgxPool }

// NewReportRepo constructs a ReportRepo with the given pool.
func NewReportRepo(p PgxPool) *ReportRepo { return &ReportRepo{Pool: p} }

// Upsert writes the report for a session, replacing any earlier state.
// Report jobs are delivered at least once, so replays must be harmless.
func (r *ReportRepo) Upsert(ctx domain.Context, rep domain.Report) error {
	tracer := otel.Tracer("repo.reports")
	ctx, span := tracer.Start(ctx, "reports.Upsert")
	defer span.End()
	now := time.Now().UTC()
	q := `INSERT INTO reports (
	session_id, status, error,
	strengths, weaknesses, improvement_tips,
	grammar_score, vocabulary_level, common_issues, grammar_suggestions,
	interview_skills, grammar_skills, confidence_score, overall_score,
	final_verdict, readiness_level, improvement_roadmap,
	total_questions, average_score, generated_at, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$21)
ON CONFLICT (session_id) DO UPDATE SET
	status=EXCLUDED.status, error=EXCLUDED.error,
	strengths=EXCLUDED.strengths, weaknesses=EXCLUDED.weaknesses,
	improvement_tips=EXCLUDED.improvement_tips,
	grammar_score=EXCLUDED.grammar_score, vocabulary_level=EXCLUDED.vocabulary_level,
	common_issues=EXCLUDED.common_issues, grammar_suggestions=EXCLUDED.grammar_suggestions,
	interview_skills=EXCLUDED.interview_skills, grammar_skills=EXCLUDED.grammar_skills,
	confidence_score=EXCLUDED.confidence_score, overall_score=EXCLUDED.overall_score,
	final_verdict=EXCLUDED.final_verdict, readiness_level=EXCLUDED.readiness_level,
	improvement_roadmap=EXCLUDED.improvement_roadmap,
	total_questions=EXCLUDED.total_questions, average_score=EXCLUDED.average_score,
	generated_at=EXCLUDED.generated_at, updated_at=EXCLUDED.updated_at`
	_, err := r.Pool.Exec(ctx, q,
		rep.SessionID, rep.Status, rep.Error,
		rep.Strengths, rep.Weaknesses, rep.ImprovementTips,
		rep.GrammarScore, rep.VocabularyLevel, rep.CommonIssues, rep.GrammarSuggestions,
		rep.InterviewSkills, rep.GrammarSkills, rep.ConfidenceScore, rep.OverallScore,
		rep.FinalVerdict, rep.ReadinessLevel, rep.ImprovementRoadmap,
		rep.TotalQuestions, rep.AverageScore, rep.GeneratedAt, now)
	if err != nil {
		return fmt.Errorf("op=report.upsert: %w", err)
	}
	return nil
}

// GetBySessionID loads the report for a session.
func (r *ReportRepo) GetBySessionID(ctx domain.Context, sessionID string) (domain.Report, error) {
	tracer := otel.Tracer("repo.reports")
	ctx, span := tracer.Start(ctx, "reports.GetBySessionID")
	defer span.End()
	q := `SELECT session_id, status, error,
	strengths, weaknesses, improvement_tips,
	grammar_score, vocabulary_level, common_issues, grammar_suggestions,
	interview_skills, grammar_skills, confidence_score, overall_score,
	final_verdict, readiness_level, improvement_roadmap,
	total_questions, average_score, generated_at, created_at, updated_at
FROM reports WHERE session_id=$1`
	var rep domain.Report
	err := r.Pool.QueryRow(ctx, q, sessionID).Scan(
		&rep.SessionID, &rep.Status, &rep.Error,
		&rep.Strengths, &rep.Weaknesses, &rep.ImprovementTips,
		&rep.GrammarScore, &rep.VocabularyLevel, &rep.CommonIssues, &rep.GrammarSuggestions,
		&rep.InterviewSkills, &rep.GrammarSkills, &rep.ConfidenceScore, &rep.OverallScore,
		&rep.FinalVerdict, &rep.ReadinessLevel, &rep.ImprovementRoadmap,
		&rep.TotalQuestions, &rep.AverageScore, &rep.GeneratedAt, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Report{}, fmt.Errorf("op=report.get: %w", domain.ErrNotFound)
		}
		return domain.Report{}, fmt.Errorf("op=report.get: %w", err)
	}
	return rep, nil
}
