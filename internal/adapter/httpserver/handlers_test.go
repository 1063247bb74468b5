package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aistub "github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/ai/stub"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/config"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/interview"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/usecase"
)

type sessionRepoFake struct {
	sessions map[string]domain.Session
}

func newSessionRepoFake(sessions ...domain.Session) *sessionRepoFake {
	f := &sessionRepoFake{sessions: map[string]domain.Session{}}
	for _, s := range sessions {
		f.sessions[s.ID] = s
	}
	return f
}

func (f *sessionRepoFake) Create(_ domain.Context, s domain.Session) (string, error) {
	if s.ID == "" {
		s.ID = fmt.Sprintf("sess-%d", len(f.sessions)+1)
	}
	f.sessions[s.ID] = s
	return s.ID, nil
}

func (f *sessionRepoFake) Get(_ domain.Context, id string) (domain.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return domain.Session{}, domain.ErrNotFound
	}
	return s, nil
}

func (f *sessionRepoFake) SetFallbackOnly(_ domain.Context, id string, v bool) error {
	s := f.sessions[id]
	s.FallbackOnly = v
	f.sessions[id] = s
	return nil
}

func (f *sessionRepoFake) SetCurrentQuestion(_ domain.Context, id string, q string) error {
	s := f.sessions[id]
	s.CurrentQuestion = q
	f.sessions[id] = s
	return nil
}

func (f *sessionRepoFake) UpdateStatus(_ domain.Context, id string, status domain.SessionStatus) error {
	s := f.sessions[id]
	s.Status = status
	f.sessions[id] = s
	return nil
}

type turnRepoFake struct{ turns []domain.Turn }

func (f *turnRepoFake) Append(_ domain.Context, t domain.Turn) (string, error) {
	t.Seq = len(f.turns) + 1
	f.turns = append(f.turns, t)
	return fmt.Sprintf("turn-%d", t.Seq), nil
}

func (f *turnRepoFake) ListBySession(_ domain.Context, sessionID string) ([]domain.Turn, error) {
	var out []domain.Turn
	for _, t := range f.turns {
		if t.SessionID == sessionID {
			out = append(out, t)
		}
	}
	return out, nil
}

type reportRepoFake struct{ reports map[string]domain.Report }

func newReportRepoFake() *reportRepoFake { return &reportRepoFake{reports: map[string]domain.Report{}} }

func (f *reportRepoFake) Upsert(_ domain.Context, r domain.Report) error {
	f.reports[r.SessionID] = r
	return nil
}

func (f *reportRepoFake) GetBySessionID(_ domain.Context, id string) (domain.Report, error) {
	r, ok := f.reports[id]
	if !ok {
		return domain.Report{}, domain.ErrNotFound
	}
	return r, nil
}

type queueFake struct{ payloads []domain.ReportTaskPayload }

func (f *queueFake) EnqueueReport(_ domain.Context, p domain.ReportTaskPayload) (string, error) {
	f.payloads = append(f.payloads, p)
	return p.SessionID, nil
}

type transcriberFake struct {
	text string
	err  error
}

func (f transcriberFake) Transcribe(_ domain.Context, _ string) (string, error) {
	return f.text, f.err
}

// newTestServer wires handlers against in-memory fakes and the offline
// reasoning stub.
func newTestServer(t *testing.T, seed ...domain.Session) (*Server, *sessionRepoFake, *reportRepoFake) {
	t.Helper()
	sessions := newSessionRepoFake(seed...)
	turns := &turnRepoFake{}
	reports := newReportRepoFake()
	queue := &queueFake{}
	aicl := aistub.New()

	cfg := config.Config{MaxUploadMB: 10, MediaDir: t.TempDir(), MediaURL: "/media", MaxStages: 12}
	sessionSvc := usecase.NewSessionService(sessions, turns, reports, queue, nil)
	engine := usecase.NewInterviewService(sessions, turns, aicl, nil, sessionSvc, interview.HeuristicTokens, 6000, 500, 12)
	reportSvc := usecase.NewReportService(sessions, turns, reports, aicl, 1500)
	healthSvc := usecase.NewHealthService(sessions, aicl, nil, nil)

	return NewServer(cfg, sessionSvc, engine, reportSvc, healthSvc, transcriberFake{text: "transcribed answer"}, nil, nil), sessions, reports
}

func testRouter(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Post("/v1/sessions", s.CreateSessionHandler())
	r.Delete("/v1/sessions/{id}", s.CancelSessionHandler())
	r.Post("/v1/sessions/{id}/answers", s.AnswerHandler())
	r.Post("/v1/sessions/{id}/health-check", s.HealthCheckHandler())
	r.Get("/v1/sessions/{id}/report", s.ReportHandler())
	r.Get("/healthz", s.HealthzHandler())
	r.Get("/readyz", s.ReadyzHandler())
	return r
}

func TestCreateSession(t *testing.T) {
	srv, sessions, _ := newTestServer(t)
	router := testRouter(srv)

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", strings.NewReader(`{"topic":"Python Developer"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["session_id"])
	assert.Equal(t, "Software Development", body["category"])
	q := body["first_question"].(map[string]any)
	assert.Equal(t, "q1", q["id"])
	assert.Contains(t, q["text"], "Python")

	stored := sessions.sessions[body["session_id"].(string)]
	assert.Equal(t, q["text"], stored.CurrentQuestion)
}

func TestCreateSessionValidation(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := testRouter(srv)

	for _, payload := range []string{`{}`, `{"topic":""}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/v1/sessions", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, payload)
		assert.Contains(t, rec.Body.String(), "INVALID_ARGUMENT")
	}
}

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestAnswerTextTurn(t *testing.T) {
	srv, sessions, _ := newTestServer(t, domain.Session{
		ID:              "sid",
		Topic:           "Python Developer",
		Status:          domain.SessionActive,
		CurrentQuestion: "Tell me about yourself.",
	})
	router := testRouter(srv)

	body, ct := multipartBody(t, map[string]string{
		"answer": "I have built several Python projects during my studies and enjoy backend work.",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/sid/answers", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp["stage"])
	assert.NotEmpty(t, resp["feedback"])
	assert.False(t, resp["interview_complete"].(bool))
	next := resp["next_question"].(map[string]any)
	assert.Equal(t, "q2", next["id"])
	assert.NotEmpty(t, next["text"])

	assert.Equal(t, next["text"], sessions.sessions["sid"].CurrentQuestion)
}

// wavBytes is a minimal RIFF/WAVE header, enough for content sniffing.
func wavBytes() []byte {
	b := []byte("RIFF")
	b = append(b, 0x24, 0x00, 0x00, 0x00)
	b = append(b, []byte("WAVEfmt ")...)
	return append(b, make([]byte, 24)...)
}

func TestAnswerTranscriberFailureContinuesTurn(t *testing.T) {
	srv, sessions, _ := newTestServer(t, domain.Session{
		ID:              "sid",
		Topic:           "Python Developer",
		Status:          domain.SessionActive,
		CurrentQuestion: "Tell me about yourself.",
	})
	srv.Transcriber = transcriberFake{err: fmt.Errorf("whisper-server unreachable")}
	router := testRouter(srv)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("audio", "answer.wav")
	require.NoError(t, err)
	_, err = fw.Write(wavBytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/sid/answers", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["transcript"], "Error transcribing")
	assert.EqualValues(t, 1, resp["stage"])
	assert.NotEmpty(t, resp["feedback"])
	assert.False(t, resp["interview_complete"].(bool))
	next := resp["next_question"].(map[string]any)
	assert.NotEmpty(t, next["text"])
	assert.Equal(t, next["text"], sessions.sessions["sid"].CurrentQuestion)
}

func TestAnswerRequiresMultipart(t *testing.T) {
	srv, _, _ := newTestServer(t, domain.Session{ID: "sid", Topic: "x", Status: domain.SessionActive})
	router := testRouter(srv)

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/sid/answers", strings.NewReader(`{"answer":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnswerMissingFields(t *testing.T) {
	srv, _, _ := newTestServer(t, domain.Session{ID: "sid", Topic: "x", Status: domain.SessionActive})
	router := testRouter(srv)

	body, ct := multipartBody(t, map[string]string{"question_id": "q1"})
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/sid/answers", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "answer text or audio file required")
}

func TestAnswerUnknownSession(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := testRouter(srv)

	body, ct := multipartBody(t, map[string]string{"answer": "hello there"})
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/missing/answers", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportETagFlow(t *testing.T) {
	srv, _, reports := newTestServer(t, domain.Session{ID: "sid", Status: domain.SessionCompleted})
	reports.reports["sid"] = domain.Report{SessionID: "sid", Status: domain.ReportProcessing}
	router := testRouter(srv)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/sid/report", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Contains(t, rec.Body.String(), "processing")

	req = httptest.NewRequest(http.MethodGet, "/v1/sessions/sid/report", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestHealthCheckClearsDegraded(t *testing.T) {
	srv, sessions, _ := newTestServer(t, domain.Session{ID: "sid", Status: domain.SessionActive, FallbackOnly: true})
	router := testRouter(srv)

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/sid/health-check", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy":true`)
	assert.False(t, sessions.sessions["sid"].FallbackOnly)
}

func TestCancelSession(t *testing.T) {
	srv, sessions, _ := newTestServer(t, domain.Session{ID: "sid", Status: domain.SessionActive})
	router := testRouter(srv)

	req := httptest.NewRequest(http.MethodDelete, "/v1/sessions/sid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, domain.SessionCanceled, sessions.sessions["sid"].Status)
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := testRouter(srv)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy":true`)
}

func TestReadyz(t *testing.T) {
	srv, _, _ := newTestServer(t)
	srv.DBCheck = func(context.Context) error { return nil }
	srv.RedisCheck = func(context.Context) error { return fmt.Errorf("redis down") }
	router := testRouter(srv)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "redis down")
}
