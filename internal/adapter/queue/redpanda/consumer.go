package redpanda

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// Consumer polls report jobs and hands them to a ReportHandler.
type Consumer struct {
	client  *kgo.Client
	handler *ReportHandler
	topic   string
	groupID string
}

// NewConsumer constructs a Consumer bound to the report topic.
func NewConsumer(brokers []string, groupID, topic string, handler *ReportHandler) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("op=queue.consumer: no seed brokers provided")
	}
	if groupID == "" {
		return nil, fmt.Errorf("op=queue.consumer: missing group ID")
	}
	if topic == "" {
		topic = DefaultReportTopic
	}

	kotelService := kotel.NewKotel(kotel.WithTracer(kotel.NewTracer(
		kotel.TracerProvider(otel.GetTracerProvider()),
	)))

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topic),
		kgo.WithHooks(kotelService.Hooks()...),
		kgo.DialTimeout(10*time.Second),
		kgo.SessionTimeout(30*time.Second),
		kgo.HeartbeatInterval(3*time.Second),
		kgo.AutoCommitMarks(),
		kgo.AutoCommitInterval(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("op=queue.consumer: %w", err)
	}

	if err := ensureTopic(client, topic, 1, 1); err != nil {
		slog.Warn("topic creation failed, it may already exist",
			slog.String("topic", topic), slog.Any("error", err))
	}

	slog.Info("report consumer created",
		slog.String("group_id", groupID), slog.String("topic", topic))
	return &Consumer{client: client, handler: handler, topic: topic, groupID: groupID}, nil
}

// Run polls until ctx is canceled. Failed jobs are logged and their
// offsets still committed: the report row is marked failed instead of
// the record being redelivered forever.
func (c *Consumer) Run(ctx domain.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return ctx.Err()
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			slog.Error("fetch error",
				slog.String("topic", topic),
				slog.Int("partition", int(partition)),
				slog.Any("error", err))
		})
		fetches.EachRecord(func(rec *kgo.Record) {
			if err := c.handler.HandleRecord(ctx, rec.Value); err != nil {
				slog.Error("report job failed",
					slog.String("key", string(rec.Key)),
					slog.Any("error", err))
			}
			c.client.MarkCommitRecords(rec)
		})
	}
}

// Close closes the underlying client.
func (c *Consumer) Close() error {
	if c.client != nil {
		c.client.Close()
	}
	return nil
}
