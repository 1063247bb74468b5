package usecase

import (
	"log/slog"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// Pinger reports whether an external service is reachable.
type Pinger interface {
	Ping(ctx domain.Context) error
}

// HealthService probes the external services and clears the per-session
// degraded flag when the reasoning service recovers.
type HealthService struct {
	Sessions    domain.SessionRepository
	AI          domain.AIClient
	Transcriber Pinger
	TTS         Pinger
}

// NewHealthService constructs a HealthService. Transcriber and TTS pingers
// are optional.
func NewHealthService(s domain.SessionRepository, aicl domain.AIClient, transcriber, tts Pinger) HealthService {
	return HealthService{Sessions: s, AI: aicl, Transcriber: transcriber, TTS: tts}
}

// ServiceStatus is one probed service in the health summary.
type ServiceStatus struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Details string `json:"details,omitempty"`
}

// HealthSummary is the per-service status with an overall verdict.
type HealthSummary struct {
	Healthy  bool            `json:"healthy"`
	Services []ServiceStatus `json:"services"`
}

// Check probes every configured service. Only the reasoning service
// decides the overall verdict; speech services degrade features, not
// the interview itself.
func (s HealthService) Check(ctx domain.Context) HealthSummary {
	summary := HealthSummary{Healthy: true}

	add := func(name string, err error) {
		st := ServiceStatus{Name: name, OK: err == nil}
		if err != nil {
			st.Details = err.Error()
		}
		summary.Services = append(summary.Services, st)
	}

	aiErr := s.AI.Ping(ctx)
	add("reasoning", aiErr)
	if aiErr != nil {
		summary.Healthy = false
	}
	if s.Transcriber != nil {
		add("transcriber", s.Transcriber.Ping(ctx))
	}
	if s.TTS != nil {
		add("tts", s.TTS.Ping(ctx))
	}
	return summary
}

// RecheckSession re-probes the reasoning service for one session and
// clears its degraded flag on success. Returns whether the reasoning
// service is available.
func (s HealthService) RecheckSession(ctx domain.Context, sessionID string) (bool, error) {
	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if err := s.AI.Ping(ctx); err != nil {
		slog.Info("reasoning service still unavailable",
			slog.String("session_id", sessionID), slog.Any("error", err))
		return false, nil
	}
	if sess.FallbackOnly {
		if err := s.Sessions.SetFallbackOnly(ctx, sessionID, false); err != nil {
			return false, err
		}
		slog.Info("session degraded flag cleared", slog.String("session_id", sessionID))
	}
	return true, nil
}
