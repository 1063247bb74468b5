package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/config"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/usecase"
	"github.com/fairyhunter13/ai-mock-interviewer/pkg/textx"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg         config.Config
	Sessions    usecase.SessionService
	Engine      *usecase.InterviewService
	Reports     usecase.ReportService
	Health      usecase.HealthService
	Transcriber domain.Transcriber
	DBCheck     func(ctx context.Context) error
	RedisCheck  func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers wired.
func NewServer(cfg config.Config, sessions usecase.SessionService, engine *usecase.InterviewService, reports usecase.ReportService, health usecase.HealthService, transcriber domain.Transcriber, dbCheck, redisCheck func(context.Context) error) *Server {
	return &Server{
		Cfg:         cfg,
		Sessions:    sessions,
		Engine:      engine,
		Reports:     reports,
		Health:      health,
		Transcriber: transcriber,
		DBCheck:     dbCheck,
		RedisCheck:  redisCheck,
	}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

type createSessionRequest struct {
	Topic string `json:"topic" validate:"required,min=2,max=200"`
}

type questionPayload struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// CreateSessionHandler starts an interview for a topic.
func (s *Server) CreateSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid JSON body", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), map[string]string{"field": "topic"})
			return
		}

		res, err := s.Sessions.Start(r.Context(), req.Topic)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"session_id": res.SessionID,
			"category":   string(res.Category),
			"first_question": questionPayload{
				ID:   "q1",
				Text: res.Question,
			},
			"audio_url": res.AudioURL,
		})
	}
}

// AnswerHandler processes one answered question. The answer arrives as
// recorded audio (transcribed server-side) or as plain text.
func (s *Server) AnswerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")

		if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
			writeError(w, r, fmt.Errorf("%w: content-type must be multipart/form-data", domain.ErrInvalidArgument), nil)
			return
		}
		maxBytes := s.Cfg.MaxUploadMB * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "too large") {
				writeJSON(w, http.StatusRequestEntityTooLarge, errorEnvelope{Error: apiError{
					Code:    "INVALID_ARGUMENT",
					Message: "payload too large",
					Details: map[string]int64{"max_mb": s.Cfg.MaxUploadMB},
				}})
				return
			}
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}

		answer, audioPath, err := s.resolveAnswer(r)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}

		out, err := s.Engine.ProcessTurn(r.Context(), sessionID, answer, audioPath)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}

		resp := map[string]any{
			"stage":              out.Stage,
			"score":              out.Score,
			"feedback":           out.Feedback,
			"transcript":         answer,
			"audio_url":          out.AudioURL,
			"interview_complete": out.Done,
			"next_question":      nil,
		}
		if !out.Done {
			resp["next_question"] = questionPayload{
				ID:   fmt.Sprintf("q%d", out.Stage+1),
				Text: out.NextQuestion,
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// resolveAnswer extracts the candidate's answer: a text field, or an audio
// upload that is sniffed, stored under the media dir, and transcribed.
func (s *Server) resolveAnswer(r *http.Request) (answer, audioPath string, err error) {
	if text := textx.SanitizeText(r.FormValue("answer")); text != "" {
		return text, "", nil
	}

	file, header, ferr := r.FormFile("audio")
	if ferr != nil {
		return "", "", fmt.Errorf("%w: answer text or audio file required", domain.ErrInvalidArgument)
	}
	defer func() { _ = file.Close() }()

	data, rerr := io.ReadAll(file)
	if rerr != nil {
		return "", "", fmt.Errorf("%w: audio read: %v", domain.ErrInvalidArgument, rerr)
	}
	mt := mimetype.Detect(data)
	if !isAudioMIME(mt.String()) {
		return "", "", fmt.Errorf("%w: unsupported media type %s", domain.ErrInvalidArgument, mt.String())
	}

	dir := filepath.Join(s.Cfg.MediaDir, "answers")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("op=answer.store: %w", err)
	}
	ext := mt.Extension()
	if ext == "" {
		ext = filepath.Ext(header.Filename)
	}
	audioPath = filepath.Join(dir, fmt.Sprintf("ans_%s%s", uuid.NewString(), ext))
	if err := os.WriteFile(audioPath, data, 0o644); err != nil {
		return "", "", fmt.Errorf("op=answer.store: %w", err)
	}

	// Transcription failures must not end the turn. The placeholder text
	// scores low on the deterministic path and the interview continues.
	answer, terr := s.Transcriber.Transcribe(r.Context(), audioPath)
	if terr != nil {
		LoggerFrom(r).Warn("transcription failed, turn continues",
			slog.String("audio_path", audioPath), slog.Any("error", terr))
		return fmt.Sprintf("Error transcribing: %v", terr), audioPath, nil
	}
	return textx.SanitizeText(answer), audioPath, nil
}

// isAudioMIME accepts sniffable audio containers, including the webm/ogg
// containers browsers produce when recording.
func isAudioMIME(m string) bool {
	m = strings.ToLower(m)
	return strings.HasPrefix(m, "audio/") || m == "video/webm" || m == "application/ogg"
}

// HealthCheckHandler re-probes the reasoning service for one session and
// clears its degraded flag on success.
func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")
		healthy, err := s.Health.RecheckSession(r.Context(), sessionID)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"healthy": healthy})
	}
}

// ReportHandler serves the report job-status envelope with ETag support.
func (s *Server) ReportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")
		status, body, etag, err := s.Reports.Fetch(r.Context(), sessionID, r.Header.Get("If-None-Match"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if etag != "" {
			w.Header().Set("ETag", etag)
		}
		if status == http.StatusNotModified {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		writeJSON(w, status, body)
	}
}

// CancelSessionHandler abandons an active session.
func (s *Server) CancelSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")
		if err := s.Sessions.Cancel(r.Context(), sessionID); err != nil {
			writeError(w, r, err, nil)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HealthzHandler reports per-service status with an overall verdict.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sum := s.Health.Check(r.Context())
		status := http.StatusOK
		if !sum.Healthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, sum)
	}
}

// ReadyzHandler verifies the process can serve traffic.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{}
		ready := true
		if s.DBCheck != nil {
			if err := s.DBCheck(r.Context()); err != nil {
				checks["db"] = err.Error()
				ready = false
			} else {
				checks["db"] = "ok"
			}
		}
		if s.RedisCheck != nil {
			if err := s.RedisCheck(r.Context()); err != nil {
				checks["redis"] = err.Error()
				ready = false
			} else {
				checks["redis"] = "ok"
			}
		}
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]any{"ready": ready, "checks": checks})
	}
}
