package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailbrief/internal/model"
	"mailbrief/internal/repository"
	"mailbrief/internal/repository/file"
	"mailbrief/internal/repository/memory"
	"mailbrief/internal/service"
)

func TestAnalyticsStats(t *testing.T) {
	day := time.Date(2024, 4, 10, 8, 0, 0, 0, time.UTC)
	replyLog := memory.NewInMemoryReplyLogRepository(
		model.ReplyLogRecord{Timestamp: day, Tags: []string{"a"}},
		model.ReplyLogRecord{Timestamp: day.Add(time.Hour), Tags: []string{"a", "b"}},
		model.ReplyLogRecord{Timestamp: day.Add(2 * time.Hour), Tags: []string{"b"}},
	)

	svc := service.NewAnalyticsService(replyLog, newTestLogger())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, map[string]int{"a": 2, "b": 2}, stats.ByTag)
	assert.Equal(t, map[string]int{"2024-04-10": 3}, stats.ByDay)
}

func TestAnalyticsStatsReflectsNewReplies(t *testing.T) {
	replyLog := memory.NewInMemoryReplyLogRepository()
	svc := service.NewAnalyticsService(replyLog, newTestLogger())
	ctx := context.Background()

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)

	require.NoError(t, replyLog.Append(ctx, model.ReplyLogRecord{Timestamp: time.Now(), Tags: []string{"urgent"}}))

	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.ByTag["urgent"])
}

func TestAnalyticsStatsMissingLog(t *testing.T) {
	replyLog := file.NewReplyLogRepository(filepath.Join(t.TempDir(), "absent.json"))
	svc := service.NewAnalyticsService(replyLog, newTestLogger())

	stats, err := svc.Stats(context.Background())
	assert.ErrorIs(t, err, repository.ErrReplyLogNotFound)
	assert.Nil(t, stats)
}
