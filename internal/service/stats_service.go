package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/blood4life/internal/realtime"
	"github.com/spec-kit/blood4life/internal/repository"
)

// TotalDonorsPayload is the broadcast body for the aggregate donor count.
type TotalDonorsPayload struct {
	Total int64 `json:"total"`
}

// StatsService publishes aggregate counters on unaddressed broadcast topics.
// Nothing here is persisted or addressed; listeners get whatever is current.
type StatsService struct {
	donors    repository.DonorRepository
	publisher realtime.Publisher
	logger    *zap.Logger
}

// NewStatsService creates the service.
func NewStatsService(donors repository.DonorRepository, publisher realtime.Publisher, logger *zap.Logger) *StatsService {
	return &StatsService{donors: donors, publisher: publisher, logger: logger}
}

// TotalDonors returns the current donor count.
func (s *StatsService) TotalDonors(ctx context.Context) (int64, error) {
	return s.donors.Count(ctx)
}

// BroadcastTotalDonors publishes the current donor count to all subscribers.
func (s *StatsService) BroadcastTotalDonors(ctx context.Context) error {
	total, err := s.donors.Count(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("broadcasting total donors", zap.Int64("total", total))
	return s.publisher.Broadcast(ctx, realtime.TopicTotalDonors, TotalDonorsPayload{Total: total})
}
