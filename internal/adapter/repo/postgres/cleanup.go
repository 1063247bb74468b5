package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// CleanupService enforces data retention on finished interviews.
type CleanupService struct {
	Pool          PgxPool
	RetentionDays int
}

// NewCleanupService creates a new cleanup service.
func NewCleanupService(pool PgxPool, retentionDays int) *CleanupService {
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &CleanupService{Pool: pool, RetentionDays: retentionDays}
}

// CleanupOldData removes sessions older than the retention period along
// with their turns and reports. Active sessions are never removed.
func (s *CleanupService) CleanupOldData(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -s.RetentionDays)

	tag, err := s.Pool.Exec(ctx, `
		DELETE FROM sessions
		WHERE started_at < $1 AND status <> 'active'
	`, cutoff)
	if err != nil {
		return fmt.Errorf("op=cleanup.old_data: %w", err)
	}
	if n := tag.RowsAffected(); n > 0 {
		slog.Info("retention cleanup removed sessions",
			slog.Int64("sessions", n),
			slog.Time("cutoff", cutoff))
	}
	return nil
}

// Run executes cleanup on the given interval until ctx is canceled.
func (s *CleanupService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.CleanupOldData(ctx); err != nil {
				slog.Error("retention cleanup failed", slog.Any("error", err))
			}
		}
	}
}
