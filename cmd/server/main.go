// Command server starts the AI mock interviewer HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/ai"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/ai/openrouter"
	aistub "github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/ai/stub"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/observability"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/queue/redpanda"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/transcriber/whisper"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/tts/edge"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/app"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/config"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/usecase"
)

// redisAdapter narrows *redis.Client to the readiness interface.
type redisAdapter struct{ rdb *redis.Client }

func (r redisAdapter) Ping(ctx context.Context) app.RedisPingResult { return r.rdb.Ping(ctx) }

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	sessionRepo := postgres.NewSessionRepo(pool)
	turnRepo := postgres.NewTurnRepo(pool)
	reportRepo := postgres.NewReportRepo(pool)

	if cfg.DataRetentionDays > 0 {
		cleanupSvc := postgres.NewCleanupService(pool, cfg.DataRetentionDays)
		go cleanupSvc.Run(ctx, cfg.CleanupInterval)
		slog.Info("cleanup service started",
			slog.Int("retention_days", cfg.DataRetentionDays),
			slog.Duration("interval", cfg.CleanupInterval))
	}

	producer, err := redpanda.NewProducer(cfg.KafkaBrokers, cfg.ReportTopic)
	if err != nil {
		slog.Error("redpanda producer connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = producer.Close() }()

	var aicl domain.AIClient
	if cfg.UseStubAI {
		aicl = aistub.New()
		slog.Info("using deterministic reasoning stub")
	} else {
		aicl = openrouter.New(cfg)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() { _ = rdb.Close() }()

	transcriberCl := whisper.New(cfg.WhisperBaseURL, cfg.AIRequestTimeout)
	ttsCl := edge.New(cfg.TTSBaseURL, cfg.TTSVoice, cfg.MediaDir, cfg.MediaURL, cfg.TTSTimeout)
	synth := edge.NewCached(ttsCl, rdb, cfg.TTSVoice, cfg.TTSCacheTTL)

	sessionSvc := usecase.NewSessionService(sessionRepo, turnRepo, reportRepo, producer, synth)
	engine := usecase.NewInterviewService(
		sessionRepo, turnRepo, aicl, synth, sessionSvc,
		ai.NewTokenCounter(cfg.OpenRouterModel),
		cfg.PromptTokenBudget, cfg.AnswerMaxTokens, cfg.MaxStages,
	)
	reportSvc := usecase.NewReportService(sessionRepo, turnRepo, reportRepo, aicl, cfg.ReportMaxTokens)
	healthSvc := usecase.NewHealthService(sessionRepo, aicl, transcriberCl, ttsCl)

	dbCheck, redisCheck := app.BuildReadinessChecks(pool, redisAdapter{rdb})
	srv := httpserver.NewServer(cfg, sessionSvc, engine, reportSvc, healthSvc, transcriberCl, dbCheck, redisCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
