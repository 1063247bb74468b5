package edge

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// CachedSynthesizer wraps a Synthesizer with a Redis URL cache so repeated
// questions (openers, the scripted fallback bank) are rendered once.
type CachedSynthesizer struct {
	inner domain.Synthesizer
	rdb   *redis.Client
	voice string
	ttl   time.Duration
}

// NewCached wraps inner with a cache. The voice participates in the key
// so a voice change does not serve stale audio.
func NewCached(inner domain.Synthesizer, rdb *redis.Client, voice string, ttl time.Duration) *CachedSynthesizer {
	return &CachedSynthesizer{inner: inner, rdb: rdb, voice: voice, ttl: ttl}
}

func (c *CachedSynthesizer) key(text string) string {
	sum := sha256.Sum256([]byte(c.voice + "\x00" + text))
	return "tts:url:" + hex.EncodeToString(sum[:])
}

// Synthesize returns the cached URL when present, otherwise synthesizes
// and caches. Cache errors are logged and ignored; the cache never makes
// synthesis fail.
func (c *CachedSynthesizer) Synthesize(ctx domain.Context, text string) (string, error) {
	key := c.key(text)
	url, err := c.rdb.Get(ctx, key).Result()
	if err == nil && url != "" {
		return url, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		slog.Warn("tts cache read failed", slog.Any("error", err))
	}

	url, err = c.inner.Synthesize(ctx, text)
	if err != nil || url == "" {
		return url, err
	}
	if setErr := c.rdb.Set(ctx, key, url, c.ttl).Err(); setErr != nil {
		slog.Warn("tts cache write failed", slog.Any("error", setErr))
	}
	return url, nil
}

var _ domain.Synthesizer = (*CachedSynthesizer)(nil)
