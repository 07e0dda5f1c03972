package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"telegram-file-convert/internal/config"
	"telegram-file-convert/internal/domain"
	"telegram-file-convert/internal/domain/model"
	"telegram-file-convert/internal/domain/ports/adapter"
)

var _ adapter.Engine = (*LibreOffice)(nil)

// LibreOffice converts DOCX->PDF and PDF->DOCX via soffice headless mode.
type LibreOffice struct {
	cfg config.ConvertConfig
	run *Runner
	log *zerolog.Logger
}

func NewLibreOffice(cfg config.ConvertConfig, run *Runner, log *zerolog.Logger) *LibreOffice {
	return &LibreOffice{cfg: cfg, run: run, log: log}
}

func (l *LibreOffice) Name() string { return "libreoffice" }

func (l *LibreOffice) Convert(ctx context.Context, job *model.ConversionJob) (*model.ConversionResult, error) {
	start := time.Now()
	target := string(job.Target)

	// A per-job profile dir avoids the user-installation lock when several
	// soffice instances run at once (common in containers).
	profile, err := os.MkdirTemp(job.OutDir, "soffice-profile-")
	if err != nil {
		return nil, fmt.Errorf("soffice profile: %v: %w", err, domain.ErrIO)
	}
	defer os.RemoveAll(profile)

	args := []string{
		"-env:UserInstallation=file://" + profile,
		"--headless",
		"--convert-to", target,
		"--outdir", job.OutDir,
		job.InputPath,
	}
	if err := l.run.Run(ctx, l.cfg.SofficePath, args...); err != nil {
		return nil, err
	}

	produced := filepath.Join(job.OutDir, stem(job.InputPath)+"."+target)
	if _, err := os.Stat(produced); err != nil {
		// soffice occasionally normalizes the output name
		matches, _ := filepath.Glob(filepath.Join(job.OutDir, "*."+target))
		if len(matches) == 0 {
			return nil, fmt.Errorf("soffice produced no %s in %s: %w", target, job.OutDir, domain.ErrExternalTool)
		}
		produced = matches[0]
	}

	return &model.ConversionResult{
		OutputPaths: []string{produced},
		Tool:        l.Name(),
		Elapsed:     time.Since(start),
	}, nil
}
