// Command worker consumes report jobs from the Redpanda queue and builds
// session reports.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/ai/openrouter"
	aistub "github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/ai/stub"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/observability"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/queue/redpanda"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/config"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)
	observability.InitMetrics()

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(":9090", mux); err != nil {
			slog.Error("worker metrics server error", slog.Any("error", err))
		}
	}()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	slog.Info("starting worker", slog.String("env", cfg.AppEnv))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("database connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	sessionRepo := postgres.NewSessionRepo(pool)
	turnRepo := postgres.NewTurnRepo(pool)
	reportRepo := postgres.NewReportRepo(pool)

	var aicl domain.AIClient
	if cfg.UseStubAI {
		aicl = aistub.New()
	} else {
		aicl = openrouter.New(cfg)
	}

	reportSvc := usecase.NewReportService(sessionRepo, turnRepo, reportRepo, aicl, cfg.ReportMaxTokens)
	handler := redpanda.NewReportHandler(reportSvc)

	consumer, err := redpanda.NewConsumer(cfg.KafkaBrokers, cfg.ReportConsumerGroup, cfg.ReportTopic, handler)
	if err != nil {
		slog.Error("redpanda consumer connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = consumer.Close() }()

	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("consumer stopped", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("worker stopped")
}
