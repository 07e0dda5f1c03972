// File: internal/usecase/stats_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"telegram-file-convert/internal/domain/model"
	"telegram-file-convert/internal/domain/ports/repository"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

type StatsUseCase interface {
	RecordUsage(ctx context.Context, tgID int64, operation string) error
	UserCount(ctx context.Context, tgID int64) (int64, error)
	Summary(ctx context.Context) (map[string]int64, error)
}

type statsUC struct {
	usage repository.UsageRepository
}

func NewStatsUseCase(usage repository.UsageRepository) *statsUC {
	return &statsUC{usage: usage}
}

func (s *statsUC) RecordUsage(ctx context.Context, tgID int64, operation string) error {
	return s.usage.Record(ctx, &model.UsageRecord{
		ID:         uuid.NewString(),
		TelegramID: tgID,
		Operation:  operation,
		CreatedAt:  time.Now(),
	})
}

func (s *statsUC) UserCount(ctx context.Context, tgID int64) (int64, error) {
	return s.usage.CountByTelegramID(ctx, tgID)
}

func (s *statsUC) Summary(ctx context.Context) (map[string]int64, error) {
	return s.usage.TotalsByOperation(ctx)
}
