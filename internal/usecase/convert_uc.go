// File: internal/usecase/convert_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"telegram-file-convert/internal/domain"
	"telegram-file-convert/internal/domain/model"
	"telegram-file-convert/internal/domain/ports/adapter"
	"telegram-file-convert/internal/infra/logging"
	"telegram-file-convert/internal/infra/metrics"
)

// Compile-time check
var _ ConvertUseCase = (*convertUC)(nil)

// ConvertUseCase is the conversion dispatcher: it routes a job to exactly one
// engine, bounds the call with a wall-clock timeout and never retries.
type ConvertUseCase interface {
	Convert(ctx context.Context, job *model.ConversionJob) (*model.ConversionResult, error)
	Merge(ctx context.Context, job *model.MergeJob) (*model.ConversionResult, error)
}

type convertUC struct {
	engines map[model.Operation]adapter.Engine
	merger  adapter.Merger
	timeout time.Duration
	log     *zerolog.Logger
}

func NewConvertUseCase(engines map[model.Operation]adapter.Engine, merger adapter.Merger, timeout time.Duration, log *zerolog.Logger) *convertUC {
	return &convertUC{engines: engines, merger: merger, timeout: timeout, log: log}
}

func (c *convertUC) Convert(ctx context.Context, job *model.ConversionJob) (*model.ConversionResult, error) {
	if job.ID == "" {
		job.ID = ulid.Make().String()
	}
	ctx = logging.WithJobID(ctx, job.ID)
	log := logging.With(ctx, c.log)
	defer logging.TraceDuration(log, "ConvertUC.Convert")()

	op, err := model.OperationFor(job.Source, job.Target)
	if err != nil {
		metrics.IncConversion(string(job.Source)+"_to_"+string(job.Target), "unsupported")
		return nil, fmt.Errorf("%s -> %s: %w", job.Source, job.Target, domain.ErrUnsupportedConversion)
	}
	engine, ok := c.engines[op]
	if !ok {
		metrics.IncConversion(string(op), "unsupported")
		return nil, fmt.Errorf("no engine for %s: %w", op, domain.ErrUnsupportedConversion)
	}

	if err := checkReadable(job.InputPath); err != nil {
		metrics.IncConversion(string(op), "io_error")
		return nil, err
	}
	if job.OutDir == "" {
		return nil, fmt.Errorf("job out dir is empty: %w", domain.ErrInvalidArgument)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	res, err := engine.Convert(ctx, job)
	elapsed := time.Since(start)
	metrics.ObserveConversion(engine.Name(), elapsed.Seconds(), err == nil)
	if err != nil {
		metrics.IncConversion(string(op), statusOf(err))
		log.Warn().Str("op", string(op)).
			Dur("elapsed", elapsed).Err(err).Msg("conversion failed")
		return nil, err
	}

	metrics.IncConversion(string(op), "ok")
	log.Info().Str("op", string(op)).Str("tool", res.Tool).
		Int("outputs", len(res.OutputPaths)).Dur("elapsed", elapsed).Msg("conversion done")
	return res, nil
}

func (c *convertUC) Merge(ctx context.Context, job *model.MergeJob) (*model.ConversionResult, error) {
	if job.ID == "" {
		job.ID = ulid.Make().String()
	}
	ctx = logging.WithJobID(ctx, job.ID)
	log := logging.With(ctx, c.log)
	defer logging.TraceDuration(log, "ConvertUC.Merge")()

	if len(job.InputPaths) == 0 {
		metrics.IncConversion(string(model.OpMergePDF), "empty_input")
		return nil, domain.ErrEmptyInputSet
	}
	for _, p := range job.InputPaths {
		if err := checkReadable(p); err != nil {
			metrics.IncConversion(string(model.OpMergePDF), "io_error")
			return nil, err
		}
	}
	metrics.ObserveMergeInputs(len(job.InputPaths))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	res, err := c.merger.Merge(ctx, job)
	elapsed := time.Since(start)
	metrics.ObserveConversion(c.merger.Name(), elapsed.Seconds(), err == nil)
	if err != nil {
		metrics.IncConversion(string(model.OpMergePDF), statusOf(err))
		log.Warn().Int("inputs", len(job.InputPaths)).
			Err(err).Msg("merge failed")
		return nil, err
	}

	metrics.IncConversion(string(model.OpMergePDF), "ok")
	log.Info().Int("inputs", len(job.InputPaths)).
		Dur("elapsed", elapsed).Msg("merge done")
	return res, nil
}

func checkReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("input %s: %v: %w", path, err, domain.ErrIO)
	}
	if info.IsDir() {
		return fmt.Errorf("input %s is a directory: %w", path, domain.ErrIO)
	}
	return nil
}

func statusOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrIO):
		return "io_error"
	case errors.Is(err, domain.ErrUnsupportedConversion):
		return "unsupported"
	default:
		return "tool_error"
	}
}
