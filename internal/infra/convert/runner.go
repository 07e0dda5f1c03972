// Package convert holds the conversion engines: thin wrappers around the
// external CLI tools (LibreOffice, Poppler, Ghostscript) plus two in-process
// image engines. Each engine is one strategy behind adapter.Engine.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"telegram-file-convert/internal/domain"
	"telegram-file-convert/internal/infra/metrics"
)

// Runner executes an external binary, honoring the ctx deadline and folding
// exit status, missing binaries and timeouts into domain errors.
type Runner struct {
	log *zerolog.Logger
}

func NewRunner(log *zerolog.Logger) *Runner {
	return &Runner{log: log}
}

func (r *Runner) Run(ctx context.Context, bin string, args ...string) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	r.log.Debug().Str("bin", bin).Strs("args", args).Msg("exec")
	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%s killed after %s: %w", bin, time.Since(start).Round(time.Millisecond), domain.ErrTimeout)
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%s not installed: %w", bin, domain.ErrExternalTool)
	}
	detail := strings.TrimSpace(out.String())
	if len(detail) > 512 {
		detail = detail[:512]
	}
	return fmt.Errorf("%s: %v: %s: %w", bin, err, detail, domain.ErrExternalTool)
}

// ScratchDir creates a fresh temp directory under workDir ("" means the
// system temp dir). Callers own the directory and release it with
// RemoveScratchDir.
func ScratchDir(workDir string) (string, error) {
	dir, err := os.MkdirTemp(workDir, "convbot-")
	if err != nil {
		return "", fmt.Errorf("scratch dir: %v: %w", err, domain.ErrIO)
	}
	metrics.IncScratchDirs()
	return dir, nil
}

// RemoveScratchDir deletes a directory handed out by ScratchDir.
func RemoveScratchDir(dir string) {
	if dir == "" {
		return
	}
	os.RemoveAll(dir)
	metrics.DecScratchDirs()
}

// stem strips the directory and extension: /tmp/a/report.docx -> report.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
