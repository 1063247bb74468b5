// Package edge implements best-effort text-to-speech against an edge-tts
// compatible HTTP service. Synthesized audio is written under the media
// directory and exposed as a relative URL.
package edge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// Client implements domain.Synthesizer.
type Client struct {
	baseURL  string
	voice    string
	mediaDir string
	mediaURL string
	hc       *http.Client
}

// New constructs a synthesizer client. Audio files land in
// mediaDir/tts and are addressed as mediaURL/tts/<name>.mp3.
func New(baseURL, voice, mediaDir, mediaURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		voice:    voice,
		mediaDir: mediaDir,
		mediaURL: strings.TrimRight(mediaURL, "/"),
		hc: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Synthesize renders text to an mp3 and returns its URL. Empty input
// yields an empty URL without an error.
func (c *Client) Synthesize(ctx domain.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	body, err := json.Marshal(map[string]string{
		"input": text,
		"voice": c.voice,
	})
	if err != nil {
		return "", fmt.Errorf("op=edge.Synthesize: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/audio/speech", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("op=edge.Synthesize: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("op=edge.Synthesize: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("op=edge.Synthesize: status %d", resp.StatusCode)
	}

	dir := filepath.Join(c.mediaDir, "tts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("op=edge.Synthesize: %w", err)
	}
	name := fmt.Sprintf("tts_%s.mp3", uuid.NewString())
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("op=edge.Synthesize: %w", err)
	}
	defer func() { _ = f.Close() }()
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("op=edge.Synthesize: write audio: %w", err)
	}
	return fmt.Sprintf("%s/tts/%s", c.mediaURL, name), nil
}

// Ping checks that the service answers at all.
func (c *Client) Ping(ctx domain.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("op=edge.Ping: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("op=edge.Ping: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}

var _ domain.Synthesizer = (*Client)(nil)
