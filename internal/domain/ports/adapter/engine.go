package adapter

import (
	"context"

	"telegram-file-convert/internal/domain/model"
)

// Engine is one conversion strategy. Implementations either shell out to an
// external tool or convert in-process; either way they honor ctx cancellation
// and write their result into job.OutDir.
type Engine interface {
	Name() string
	Convert(ctx context.Context, job *model.ConversionJob) (*model.ConversionResult, error)
}

// Merger concatenates PDFs in input order.
type Merger interface {
	Name() string
	Merge(ctx context.Context, job *model.MergeJob) (*model.ConversionResult, error)
}
