// Package redpanda provides Redpanda/Kafka queue integration.
//
// It carries report-generation jobs from the API to the worker.
// Report writes are idempotent upserts keyed by session, so the
// producer targets at-least-once delivery.
package redpanda

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/observability"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// DefaultReportTopic is the Kafka topic for report jobs.
const DefaultReportTopic = "report-jobs"

// Producer wraps a Kafka producer and implements domain.Queue.
type Producer struct {
	client *kgo.Client
	topic  string
}

// NewProducer constructs a Producer and ensures the topic exists.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("op=queue.producer: no seed brokers provided")
	}
	if topic == "" {
		topic = DefaultReportTopic
	}

	kotelService := kotel.NewKotel(kotel.WithTracer(kotel.NewTracer(
		kotel.TracerProvider(otel.GetTracerProvider()),
	)))

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.RequestRetries(10),
		kgo.ProducerBatchMaxBytes(1_000_000),
		kgo.WithHooks(kotelService.Hooks()...),
	)
	if err != nil {
		return nil, fmt.Errorf("op=queue.producer: %w", err)
	}

	if err := ensureTopic(client, topic, 1, 1); err != nil {
		// The broker may have created it concurrently.
		slog.Warn("topic creation failed, it may already exist",
			slog.String("topic", topic), slog.Any("error", err))
	}

	return &Producer{client: client, topic: topic}, nil
}

// EnqueueReport publishes a report job keyed by session id.
func (p *Producer) EnqueueReport(ctx domain.Context, payload domain.ReportTaskPayload) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("op=queue.enqueue_report: marshal: %w", err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(payload.SessionID),
		Value: b,
		Headers: []kgo.RecordHeader{
			{Key: "session_id", Value: []byte(payload.SessionID)},
		},
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return "", fmt.Errorf("op=queue.enqueue_report: produce: %w", err)
	}
	observability.JobsEnqueuedTotal.WithLabelValues("report").Inc()
	slog.Info("report job enqueued",
		slog.String("session_id", payload.SessionID),
		slog.String("topic", p.topic))
	return payload.SessionID, nil
}

// Close closes the underlying client.
func (p *Producer) Close() error {
	if p.client != nil {
		p.client.Close()
	}
	return nil
}
