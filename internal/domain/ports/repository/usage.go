package repository

import (
	"context"

	"telegram-file-convert/internal/domain/model"
)

// UsageRepository persists per-user bot activity.
type UsageRepository interface {
	Record(ctx context.Context, rec *model.UsageRecord) error
	CountByTelegramID(ctx context.Context, tgID int64) (int64, error)
	// TotalsByOperation returns operation -> count across all users.
	TotalsByOperation(ctx context.Context) (map[string]int64, error)
}
