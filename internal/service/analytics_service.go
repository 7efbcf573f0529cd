package service

import (
	"context"
	"fmt"

	"mailbrief/internal/analytics"
	"mailbrief/internal/logger"
	"mailbrief/internal/model"
	"mailbrief/internal/repository"
)

type analyticsService struct {
	replyLog repository.ReplyLogRepository
	logger   *logger.Logger
}

func NewAnalyticsService(replyLog repository.ReplyLogRepository, logger *logger.Logger) AnalyticsService {
	return &analyticsService{
		replyLog: replyLog,
		logger:   logger,
	}
}

// Stats reloads the whole reply log and recomputes the aggregate. A missing
// log is an error wrapping repository.ErrReplyLogNotFound.
func (s *analyticsService) Stats(ctx context.Context) (*model.Stats, error) {
	records, err := s.replyLog.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reply log: %w", err)
	}

	stats := analytics.Compute(records)
	s.logger.Debugf("Computed stats over %d replies", stats.Total)

	return &stats, nil
}
