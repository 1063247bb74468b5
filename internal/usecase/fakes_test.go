package usecase

import (
	"errors"
	"fmt"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

type sessionRepoFake struct {
	sessions      map[string]domain.Session
	createErr     error
	fallbackCalls []bool
	questionCalls []string
}

func newSessionRepoFake(sessions ...domain.Session) *sessionRepoFake {
	f := &sessionRepoFake{sessions: map[string]domain.Session{}}
	for _, s := range sessions {
		f.sessions[s.ID] = s
	}
	return f
}

func (f *sessionRepoFake) Create(_ domain.Context, s domain.Session) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	if s.ID == "" {
		s.ID = fmt.Sprintf("sess-%d", len(f.sessions)+1)
	}
	f.sessions[s.ID] = s
	return s.ID, nil
}

func (f *sessionRepoFake) Get(_ domain.Context, id string) (domain.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return domain.Session{}, fmt.Errorf("op=session.get: %w", domain.ErrNotFound)
	}
	return s, nil
}

func (f *sessionRepoFake) SetFallbackOnly(_ domain.Context, id string, fallbackOnly bool) error {
	s, ok := f.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.FallbackOnly = fallbackOnly
	f.sessions[id] = s
	f.fallbackCalls = append(f.fallbackCalls, fallbackOnly)
	return nil
}

func (f *sessionRepoFake) SetCurrentQuestion(_ domain.Context, id string, question string) error {
	s, ok := f.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.CurrentQuestion = question
	f.sessions[id] = s
	f.questionCalls = append(f.questionCalls, question)
	return nil
}

func (f *sessionRepoFake) UpdateStatus(_ domain.Context, id string, status domain.SessionStatus) error {
	s, ok := f.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = status
	f.sessions[id] = s
	return nil
}

type turnRepoFake struct {
	turns     []domain.Turn
	appendErr error
	listErr   error
}

func (f *turnRepoFake) Append(_ domain.Context, t domain.Turn) (string, error) {
	if f.appendErr != nil {
		return "", f.appendErr
	}
	t.Seq = len(f.turns) + 1
	t.ID = fmt.Sprintf("turn-%d", t.Seq)
	f.turns = append(f.turns, t)
	return t.ID, nil
}

func (f *turnRepoFake) ListBySession(_ domain.Context, sessionID string) ([]domain.Turn, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Turn
	for _, t := range f.turns {
		if t.SessionID == sessionID {
			out = append(out, t)
		}
	}
	return out, nil
}

type reportRepoFake struct {
	reports   map[string]domain.Report
	upserts   []domain.Report
	upsertErr error
}

func newReportRepoFake() *reportRepoFake {
	return &reportRepoFake{reports: map[string]domain.Report{}}
}

func (f *reportRepoFake) Upsert(_ domain.Context, r domain.Report) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.reports[r.SessionID] = r
	f.upserts = append(f.upserts, r)
	return nil
}

func (f *reportRepoFake) GetBySessionID(_ domain.Context, sessionID string) (domain.Report, error) {
	r, ok := f.reports[sessionID]
	if !ok {
		return domain.Report{}, fmt.Errorf("op=report.get: %w", domain.ErrNotFound)
	}
	return r, nil
}

type queueFake struct {
	payloads []domain.ReportTaskPayload
	err      error
}

func (f *queueFake) EnqueueReport(_ domain.Context, p domain.ReportTaskPayload) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.payloads = append(f.payloads, p)
	return p.SessionID, nil
}

type aiFake struct {
	response string
	err      error
	pingErr  error
	calls    int
	lastMsgs []domain.ChatMessage
}

func (f *aiFake) ChatJSON(_ domain.Context, messages []domain.ChatMessage, _ int) (string, error) {
	f.calls++
	f.lastMsgs = messages
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *aiFake) Ping(_ domain.Context) error { return f.pingErr }

type synthFake struct {
	url   string
	err   error
	calls int
}

func (f *synthFake) Synthesize(_ domain.Context, text string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.url == "" {
		return "", errors.New("no url configured")
	}
	return f.url, nil
}

type pingerFake struct{ err error }

func (f pingerFake) Ping(_ domain.Context) error { return f.err }

type completerFake struct {
	completed []string
	err       error
}

func (f *completerFake) Complete(_ domain.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.completed = append(f.completed, id)
	return nil
}
