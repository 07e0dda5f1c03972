package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"telegram-file-convert/internal/config"
	"telegram-file-convert/internal/domain"
	"telegram-file-convert/internal/domain/model"
	"telegram-file-convert/internal/domain/ports/adapter"
)

var (
	_ adapter.Engine = (*Rasterizer)(nil)
	_ adapter.Merger = (*Merger)(nil)
)

// Rasterizer renders PDF pages to JPG/PNG images with pdftoppm.
type Rasterizer struct {
	cfg config.ConvertConfig
	run *Runner
	log *zerolog.Logger
}

func NewRasterizer(cfg config.ConvertConfig, run *Runner, log *zerolog.Logger) *Rasterizer {
	return &Rasterizer{cfg: cfg, run: run, log: log}
}

func (p *Rasterizer) Name() string { return "pdftoppm" }

func (p *Rasterizer) Convert(ctx context.Context, job *model.ConversionJob) (*model.ConversionResult, error) {
	start := time.Now()

	fmtFlag, ext := "-jpeg", "jpg"
	if job.Target == model.FormatPNG {
		fmtFlag, ext = "-png", "png"
	}
	dpi := p.cfg.RasterDPI
	if v, ok := job.Options["dpi"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			dpi = n
		}
	}

	prefix := filepath.Join(job.OutDir, "page")
	args := []string{fmtFlag, "-r", strconv.Itoa(dpi), job.InputPath, prefix}
	if err := p.run.Run(ctx, p.cfg.PdftoppmPath, args...); err != nil {
		return nil, err
	}

	// pdftoppm zero-pads page numbers, so a lexical sort preserves page order.
	pages, _ := filepath.Glob(prefix + "*." + ext)
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no pages in %s: %w", job.OutDir, domain.ErrExternalTool)
	}
	sort.Strings(pages)

	return &model.ConversionResult{
		OutputPaths: pages,
		Tool:        p.Name(),
		Elapsed:     time.Since(start),
	}, nil
}

// Merger concatenates PDFs in input order with pdfunite.
type Merger struct {
	cfg config.ConvertConfig
	run *Runner
	log *zerolog.Logger
}

func NewMerger(cfg config.ConvertConfig, run *Runner, log *zerolog.Logger) *Merger {
	return &Merger{cfg: cfg, run: run, log: log}
}

func (m *Merger) Name() string { return "pdfunite" }

func (m *Merger) Merge(ctx context.Context, job *model.MergeJob) (*model.ConversionResult, error) {
	if len(job.InputPaths) == 0 {
		return nil, domain.ErrEmptyInputSet
	}
	start := time.Now()

	out := filepath.Join(job.OutDir, "merged.pdf")
	args := append(append([]string{}, job.InputPaths...), out)
	if err := m.run.Run(ctx, m.cfg.PdfunitePath, args...); err != nil {
		return nil, err
	}

	return &model.ConversionResult{
		OutputPaths: []string{out},
		Tool:        m.Name(),
		Elapsed:     time.Since(start),
	}, nil
}
