package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupSkipsActiveSessions(t *testing.T) {
	pool := &poolStub{execTag: pgconn.NewCommandTag("DELETE 3")}
	svc := NewCleanupService(pool, 30)

	require.NoError(t, svc.CleanupOldData(context.Background()))
	assert.Contains(t, pool.lastSQL, "status <> 'active'")

	cutoff, ok := pool.lastArgs[0].(time.Time)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -30), cutoff, time.Minute)
}

func TestCleanupDefaultRetention(t *testing.T) {
	svc := NewCleanupService(&poolStub{}, 0)
	assert.Equal(t, 90, svc.RetentionDays)
}

func TestCleanupError(t *testing.T) {
	pool := &poolStub{execErr: errors.New("boom")}
	svc := NewCleanupService(pool, 30)

	err := svc.CleanupOldData(context.Background())
	assert.ErrorContains(t, err, "op=cleanup.old_data")
}

func TestCleanupRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		NewCleanupService(&poolStub{}, 30).Run(ctx, time.Hour)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
