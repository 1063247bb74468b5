// Package whisper implements speech-to-text against a whisper-server
// compatible HTTP endpoint.
package whisper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// Client implements domain.Transcriber.
type Client struct {
	baseURL string
	hc      *http.Client
}

// New constructs a transcriber client.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Transcribe uploads the audio file and returns the recognized text.
func (c *Client) Transcribe(ctx domain.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("op=whisper.Transcribe: open audio: %w", err)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("op=whisper.Transcribe: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("op=whisper.Transcribe: read audio: %w", err)
	}
	if err := mw.WriteField("response_format", "json"); err != nil {
		return "", fmt.Errorf("op=whisper.Transcribe: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("op=whisper.Transcribe: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/inference", &buf)
	if err != nil {
		return "", fmt.Errorf("op=whisper.Transcribe: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("op=whisper.Transcribe: %w: %v", domain.ErrUpstreamTimeout, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("op=whisper.Transcribe: status %d", resp.StatusCode)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("op=whisper.Transcribe: decode: %w", domain.ErrSchemaInvalid)
	}
	return strings.TrimSpace(out.Text), nil
}

// Ping checks that the server answers at all. whisper-server has no
// dedicated health route, so any HTTP response counts as reachable.
func (c *Client) Ping(ctx domain.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("op=whisper.Ping: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("op=whisper.Ping: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}
