package convert

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"telegram-file-convert/internal/config"
	"telegram-file-convert/internal/domain/model"
	"telegram-file-convert/internal/domain/ports/adapter"
)

var _ adapter.Engine = (*Ghostscript)(nil)

// Ghostscript rewrites a PDF with downsampled resources to shrink it.
type Ghostscript struct {
	cfg config.ConvertConfig
	run *Runner
	log *zerolog.Logger
}

func NewGhostscript(cfg config.ConvertConfig, run *Runner, log *zerolog.Logger) *Ghostscript {
	return &Ghostscript{cfg: cfg, run: run, log: log}
}

func (g *Ghostscript) Name() string { return "ghostscript" }

func (g *Ghostscript) Convert(ctx context.Context, job *model.ConversionJob) (*model.ConversionResult, error) {
	start := time.Now()

	// /screen is smallest, /ebook medium, /printer and /prepress higher quality
	settings := g.cfg.PDFSettings
	if v, ok := job.Options["pdf_settings"]; ok && v != "" {
		settings = v
	}

	out := filepath.Join(job.OutDir, "compressed_"+filepath.Base(job.InputPath))
	args := []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.4",
		"-dPDFSETTINGS=" + settings,
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
		"-sOutputFile=" + out,
		job.InputPath,
	}
	if err := g.run.Run(ctx, g.cfg.GsPath, args...); err != nil {
		return nil, err
	}

	return &model.ConversionResult{
		OutputPaths: []string{out},
		Tool:        g.Name(),
		Elapsed:     time.Since(start),
	}, nil
}
