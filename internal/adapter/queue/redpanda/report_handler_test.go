package redpanda

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

type builderStub struct {
	sessionID    string
	topic        string
	err          error
	markErr      error
	calls        int
	failedID     string
	failedReason string
}

func (b *builderStub) Build(_ domain.Context, sessionID, topic string) error {
	b.calls++
	b.sessionID = sessionID
	b.topic = topic
	return b.err
}

func (b *builderStub) MarkFailed(_ domain.Context, sessionID, reason string) error {
	b.failedID = sessionID
	b.failedReason = reason
	return b.markErr
}

func TestHandleRecord(t *testing.T) {
	b := &builderStub{}
	h := NewReportHandler(b)

	payload, err := json.Marshal(domain.ReportTaskPayload{SessionID: "sid", Topic: "Python Developer"})
	require.NoError(t, err)

	require.NoError(t, h.HandleRecord(context.Background(), payload))
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, "sid", b.sessionID)
	assert.Equal(t, "Python Developer", b.topic)
	assert.Empty(t, b.failedID)
}

func TestHandleRecordBadJSON(t *testing.T) {
	b := &builderStub{}
	h := NewReportHandler(b)

	err := h.HandleRecord(context.Background(), []byte("{not json"))
	assert.ErrorContains(t, err, "decode")
	assert.Zero(t, b.calls)
}

func TestHandleRecordMissingSessionID(t *testing.T) {
	b := &builderStub{}
	h := NewReportHandler(b)

	err := h.HandleRecord(context.Background(), []byte(`{"topic":"x"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Zero(t, b.calls)
}

func TestHandleRecordBuilderError(t *testing.T) {
	b := &builderStub{err: errors.New("boom")}
	h := NewReportHandler(b)

	payload, _ := json.Marshal(domain.ReportTaskPayload{SessionID: "sid", Topic: "x"})
	err := h.HandleRecord(context.Background(), payload)
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, "sid", b.failedID)
	assert.Contains(t, b.failedReason, "boom")
}

func TestHandleRecordMarkFailedErrorKeepsBuildError(t *testing.T) {
	b := &builderStub{err: errors.New("boom"), markErr: errors.New("db down")}
	h := NewReportHandler(b)

	payload, _ := json.Marshal(domain.ReportTaskPayload{SessionID: "sid", Topic: "x"})
	err := h.HandleRecord(context.Background(), payload)
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, "sid", b.failedID)
}

func TestNewProducerNoBrokers(t *testing.T) {
	_, err := NewProducer(nil, "")
	assert.ErrorContains(t, err, "no seed brokers")
}

func TestNewConsumerValidation(t *testing.T) {
	_, err := NewConsumer(nil, "g", "", nil)
	assert.ErrorContains(t, err, "no seed brokers")

	_, err = NewConsumer([]string{"localhost:9092"}, "", "", nil)
	assert.ErrorContains(t, err, "missing group ID")
}
