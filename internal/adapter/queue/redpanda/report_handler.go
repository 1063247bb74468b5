package redpanda

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/observability"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// ReportBuilder generates and stores the report for a finished session.
type ReportBuilder interface {
	Build(ctx domain.Context, sessionID, topic string) error
	MarkFailed(ctx domain.Context, sessionID, reason string) error
}

// ReportHandler decodes report job records and runs the builder.
type ReportHandler struct {
	builder ReportBuilder
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(builder ReportBuilder) *ReportHandler {
	return &ReportHandler{builder: builder}
}

// HandleRecord processes one report job record.
func (h *ReportHandler) HandleRecord(ctx domain.Context, value []byte) error {
	var payload domain.ReportTaskPayload
	if err := json.Unmarshal(value, &payload); err != nil {
		return fmt.Errorf("op=queue.handle_report: decode: %w", err)
	}
	if payload.SessionID == "" {
		return fmt.Errorf("op=queue.handle_report: %w: missing session_id", domain.ErrInvalidArgument)
	}

	observability.JobsProcessing.WithLabelValues("report").Inc()
	defer observability.JobsProcessing.WithLabelValues("report").Dec()

	if err := h.builder.Build(ctx, payload.SessionID, payload.Topic); err != nil {
		observability.JobsFailedTotal.WithLabelValues("report").Inc()
		// The offset commits regardless, so the failure must land on the
		// report row or the job-status envelope would show processing forever.
		if merr := h.builder.MarkFailed(ctx, payload.SessionID, err.Error()); merr != nil {
			slog.Error("failed to record report failure",
				slog.String("session_id", payload.SessionID), slog.Any("error", merr))
		}
		return fmt.Errorf("op=queue.handle_report: %w", err)
	}
	observability.JobsCompletedTotal.WithLabelValues("report").Inc()
	return nil
}
