// Package domain holds the core entities and ports for the mock interviewer.
package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrRateLimited     = errors.New("rate limited")
	ErrUpstreamTimeout = errors.New("upstream timeout")
	ErrSchemaInvalid   = errors.New("schema invalid")
	ErrInternal        = errors.New("internal error")
)

// RoleCategory is the coarse classification of an interview's job domain.
// It is always recomputed from the session topic, never stored.
type RoleCategory string

const (
	RoleSoftwareDev      RoleCategory = "Software Development"
	RoleDataScience      RoleCategory = "Data Science & Analytics"
	RoleWebDev           RoleCategory = "Web Development"
	RoleDevOps           RoleCategory = "DevOps & Cloud"
	RoleQA               RoleCategory = "Quality Assurance"
	RoleMobileDev        RoleCategory = "Mobile Development"
	RoleDatabaseAdmin    RoleCategory = "Database Administration"
	RoleCybersecurity    RoleCategory = "Cybersecurity"
	RoleUIUX             RoleCategory = "UI/UX Design"
	RoleProjectMgmt      RoleCategory = "Project Management"
	RoleBusinessAnalysis RoleCategory = "Business Analysis"
	RoleNetworkEng       RoleCategory = "Network Engineering"
	RoleGeneral          RoleCategory = "General Technical"
)

// SessionStatus enumerates the session lifecycle.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionCanceled  SessionStatus = "canceled"
)

// Session is one mock interview. Topic is immutable after creation.
// FallbackOnly records that the reasoning service failed for this session;
// once set it stays set until an explicit health re-check clears it.
type Session struct {
	ID           string
	Topic        string
	Status       SessionStatus
	FallbackOnly bool
	// CurrentQuestion is the question the candidate is answering next.
	// It advances after every processed turn.
	CurrentQuestion string
	StartedAt       time.Time
	EndedAt         *time.Time
}

// Turn is one question/answer/score/feedback unit within a session.
// Seq is 1-based, strictly increasing and gapless.
type Turn struct {
	ID        string
	SessionID string
	Seq       int
	Question  string
	Answer    string
	Score     int // [1,10]
	Feedback  string
	AudioPath string
	CreatedAt time.Time
}

// EvaluationResult is the outcome of processing one answered turn.
// Every field is always populated; the engine repairs short or missing
// values before returning.
type EvaluationResult struct {
	Feedback     string
	Score        int // clamped to [1,10]
	NextQuestion string
}

// ReportStatus mirrors the job lifecycle of a report build.
type ReportStatus string

const (
	ReportQueued     ReportStatus = "queued"
	ReportProcessing ReportStatus = "processing"
	ReportCompleted  ReportStatus = "completed"
	ReportFailed     ReportStatus = "failed"
)

// Report is the consolidated evaluation of a completed session.
type Report struct {
	SessionID           string
	Status              ReportStatus
	Error               string
	Strengths           []string
	Weaknesses          []string
	ImprovementTips     []string
	GrammarScore        int // [0,10]
	VocabularyLevel     string
	CommonIssues        []string
	GrammarSuggestions  []string
	InterviewSkills     int
	GrammarSkills       int
	ConfidenceScore     int
	OverallScore        float64 // one decimal
	FinalVerdict        string
	ReadinessLevel      string
	ImprovementRoadmap  []string
	TotalQuestions      int
	AverageScore        float64
	GeneratedAt         time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Readiness levels reported by the aggregator.
const (
	ReadinessReady        = "Interview Ready"
	ReadinessNeedsWork    = "Needs Practice"
	ReadinessNeedsSerious = "Needs Significant Improvement"
)

// Repositories (ports)

type SessionRepository interface {
	Create(ctx Context, s Session) (string, error)
	Get(ctx Context, id string) (Session, error)
	SetFallbackOnly(ctx Context, id string, fallbackOnly bool) error
	SetCurrentQuestion(ctx Context, id string, question string) error
	UpdateStatus(ctx Context, id string, status SessionStatus) error
}

type TurnRepository interface {
	Append(ctx Context, t Turn) (string, error)
	ListBySession(ctx Context, sessionID string) ([]Turn, error)
}

type ReportRepository interface {
	Upsert(ctx Context, r Report) error
	GetBySessionID(ctx Context, sessionID string) (Report, error)
}

// Queue (port)

type Queue interface {
	EnqueueReport(ctx Context, payload ReportTaskPayload) (string, error)
}

// ReportTaskPayload is the message carried on the report-jobs topic.
type ReportTaskPayload struct {
	SessionID string `json:"session_id"`
	Topic     string `json:"topic"`
}

// ChatMessage is one turn of a reasoning service conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat roles.
const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// AIClient (port) abstracts the external reasoning service.
type AIClient interface {
	// ChatJSON sends a conversation and returns the raw model output,
	// which is expected (but not guaranteed) to be JSON.
	ChatJSON(ctx Context, messages []ChatMessage, maxTokens int) (string, error)
	// Ping verifies the service is reachable. Used by explicit health re-checks.
	Ping(ctx Context) error
}

// Transcriber (port) converts recorded answer audio into text.
type Transcriber interface {
	Transcribe(ctx Context, audioPath string) (string, error)
}

// Synthesizer (port) converts question text into an audio asset URL.
// Best-effort: failures yield an empty URL, never an error that callers
// must handle beyond logging.
type Synthesizer interface {
	Synthesize(ctx Context, text string) (string, error)
}

// Context aliases context.Context so ports read uniformly.
type Context = context.Context
