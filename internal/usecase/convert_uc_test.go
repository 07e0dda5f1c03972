package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"telegram-file-convert/internal/domain"
	"telegram-file-convert/internal/domain/model"
	"telegram-file-convert/internal/domain/ports/adapter"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func writeFixture(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("fixture"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestConvertUC_RoutesToEngine(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFixture(t, dir, "photo.jpg")

	eng := &fakeEngine{name: "fake"}
	uc := NewConvertUseCase(map[model.Operation]adapter.Engine{
		model.OpJPGToPDF: eng,
	}, &fakeMerger{}, time.Minute, testLogger())

	res, err := uc.Convert(context.Background(), &model.ConversionJob{
		InputPath: input,
		OutDir:    t.TempDir(),
		Source:    model.FormatJPG,
		Target:    model.FormatPDF,
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(res.OutputPaths) != 1 {
		t.Fatalf("expected 1 output, got %d", len(res.OutputPaths))
	}
	if info, err := os.Stat(res.OutputPaths[0]); err != nil || info.Size() == 0 {
		t.Fatalf("expected non-empty output file, stat err=%v", err)
	}
	if eng.callCount() != 1 {
		t.Fatalf("engine invoked %d times, want 1", eng.callCount())
	}
	if !eng.sawDeadline {
		t.Fatal("engine was invoked without a wall-clock deadline")
	}
}

func TestConvertUC_UnsupportedPair_NeverInvokesEngine(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFixture(t, dir, "letter.docx")

	eng := &fakeEngine{name: "fake"}
	uc := NewConvertUseCase(map[model.Operation]adapter.Engine{
		model.OpJPGToPDF: eng,
	}, &fakeMerger{}, time.Minute, testLogger())

	_, err := uc.Convert(context.Background(), &model.ConversionJob{
		InputPath: input,
		OutDir:    t.TempDir(),
		Source:    model.FormatDOCX,
		Target:    model.FormatJPG,
	})
	if !errors.Is(err, domain.ErrUnsupportedConversion) {
		t.Fatalf("want ErrUnsupportedConversion, got %v", err)
	}
	if eng.callCount() != 0 {
		t.Fatalf("engine must not run for unsupported pairs, ran %d times", eng.callCount())
	}
}

func TestConvertUC_MissingInput(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{name: "fake"}
	uc := NewConvertUseCase(map[model.Operation]adapter.Engine{
		model.OpJPGToPDF: eng,
	}, &fakeMerger{}, time.Minute, testLogger())

	_, err := uc.Convert(context.Background(), &model.ConversionJob{
		InputPath: filepath.Join(t.TempDir(), "missing.jpg"),
		OutDir:    t.TempDir(),
		Source:    model.FormatJPG,
		Target:    model.FormatPDF,
	})
	if !errors.Is(err, domain.ErrIO) {
		t.Fatalf("want ErrIO for unreadable input, got %v", err)
	}
	if eng.callCount() != 0 {
		t.Fatal("engine must not run when the input is unreadable")
	}
}

func TestConvertUC_EngineFailureSurfaces(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFixture(t, dir, "broken.pdf")

	eng := &fakeEngine{name: "fake", err: domain.ErrExternalTool}
	uc := NewConvertUseCase(map[model.Operation]adapter.Engine{
		model.OpCompressPDF: eng,
	}, &fakeMerger{}, time.Minute, testLogger())

	_, err := uc.Convert(context.Background(), &model.ConversionJob{
		InputPath: input,
		OutDir:    t.TempDir(),
		Source:    model.FormatPDF,
		Target:    model.FormatPDF,
	})
	if !errors.Is(err, domain.ErrExternalTool) {
		t.Fatalf("want ErrExternalTool, got %v", err)
	}
}

func TestConvertUC_MergeEmpty(t *testing.T) {
	t.Parallel()

	merger := &fakeMerger{}
	uc := NewConvertUseCase(nil, merger, time.Minute, testLogger())

	_, err := uc.Merge(context.Background(), &model.MergeJob{OutDir: t.TempDir()})
	if !errors.Is(err, domain.ErrEmptyInputSet) {
		t.Fatalf("want ErrEmptyInputSet, got %v", err)
	}
	if merger.callCount() != 0 {
		t.Fatal("merger must not run for an empty input set")
	}
}

func TestConvertUC_MergePreservesOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	inputs := []string{
		writeFixture(t, dir, "a.pdf"),
		writeFixture(t, dir, "b.pdf"),
		writeFixture(t, dir, "c.pdf"),
	}

	merger := &fakeMerger{}
	uc := NewConvertUseCase(nil, merger, time.Minute, testLogger())

	res, err := uc.Merge(context.Background(), &model.MergeJob{
		InputPaths: inputs,
		OutDir:     t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(res.OutputPaths) != 1 {
		t.Fatalf("expected one merged output, got %d", len(res.OutputPaths))
	}
	if merger.callCount() != 1 {
		t.Fatalf("merger invoked %d times, want 1", merger.callCount())
	}
	got := merger.calls[0]
	for i := range inputs {
		if got[i] != inputs[i] {
			t.Fatalf("input order changed: got %v, want %v", got, inputs)
		}
	}
}

func TestConvertUC_AssignsJobID(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFixture(t, dir, "photo.jpg")

	eng := &fakeEngine{name: "fake"}
	uc := NewConvertUseCase(map[model.Operation]adapter.Engine{
		model.OpJPGToPDF: eng,
	}, &fakeMerger{}, time.Minute, testLogger())

	job := &model.ConversionJob{
		InputPath: input,
		OutDir:    t.TempDir(),
		Source:    model.FormatJPG,
		Target:    model.FormatPDF,
	}
	if _, err := uc.Convert(context.Background(), job); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if job.ID == "" {
		t.Fatal("expected a job ID to be assigned")
	}
}
