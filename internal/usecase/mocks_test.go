package usecase

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"telegram-file-convert/internal/domain"
	"telegram-file-convert/internal/domain/model"
)

// fakeEngine records invocations and either fails with err or writes one
// output file into the job's out dir.
type fakeEngine struct {
	name        string
	err         error
	mu          sync.Mutex
	calls       []*model.ConversionJob
	sawDeadline bool
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Convert(ctx context.Context, job *model.ConversionJob) (*model.ConversionResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, job)
	_, f.sawDeadline = ctx.Deadline()
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := filepath.Join(job.OutDir, "out."+string(job.Target))
	if err := os.WriteFile(out, []byte("converted"), 0o644); err != nil {
		return nil, err
	}
	return &model.ConversionResult{OutputPaths: []string{out}, Tool: f.name}, nil
}

func (f *fakeEngine) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeMerger struct {
	err   error
	mu    sync.Mutex
	calls [][]string
}

func (f *fakeMerger) Name() string { return "fake-merger" }

func (f *fakeMerger) Merge(ctx context.Context, job *model.MergeJob) (*model.ConversionResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string(nil), job.InputPaths...))
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	out := filepath.Join(job.OutDir, "merged.pdf")
	if err := os.WriteFile(out, []byte("merged"), 0o644); err != nil {
		return nil, err
	}
	return &model.ConversionResult{OutputPaths: []string{out}, Tool: f.Name()}, nil
}

func (f *fakeMerger) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// memUsageRepo is an in-memory repository.UsageRepository.
type memUsageRepo struct {
	mu   sync.Mutex
	recs []*model.UsageRecord
}

func newMemUsageRepo() *memUsageRepo { return &memUsageRepo{} }

func (m *memUsageRepo) Record(_ context.Context, rec *model.UsageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.recs {
		if r.ID == rec.ID {
			return domain.ErrAlreadyExists
		}
	}
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memUsageRepo) CountByTelegramID(_ context.Context, tgID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.recs {
		if r.TelegramID == tgID {
			n++
		}
	}
	return n, nil
}

func (m *memUsageRepo) TotalsByOperation(_ context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	totals := make(map[string]int64)
	for _, r := range m.recs {
		totals[r.Operation]++
	}
	return totals, nil
}
