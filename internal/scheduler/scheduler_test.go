package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shaiso/Rollout/internal/domain"
	"github.com/shaiso/Rollout/internal/history"
	"github.com/shaiso/Rollout/internal/runner"
)

// fakeLookup — RunLookup в памяти.
type fakeLookup struct {
	existing map[string]*domain.Run
	queries  int
}

func (f *fakeLookup) GetByIdempotencyKey(_ context.Context, _, key string) (*domain.Run, error) {
	f.queries++
	if run, ok := f.existing[key]; ok {
		return run, nil
	}
	return nil, history.ErrNotFound
}

func testPipeline() *domain.Pipeline {
	return &domain.Pipeline{
		Name: "deploy",
		Steps: []domain.StepDef{
			{ID: "ok", Command: []string{"true"}},
		},
	}
}

func newTestScheduler(t *testing.T, lookup RunLookup) *Scheduler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(Config{
		Pipeline: testPipeline(),
		Runner:   runner.New(runner.Config{Logger: logger}),
		CronExpr: "0 4 * * *",
		Lookup:   lookup,
		Logger:   logger,
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNew_InvalidCron(t *testing.T) {
	_, err := New(Config{
		Pipeline: testPipeline(),
		Runner:   runner.New(runner.Config{}),
		CronExpr: "not a cron",
	})
	if err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestTick_RunsPipeline(t *testing.T) {
	lookup := &fakeLookup{}
	s := newTestScheduler(t, lookup)

	due := time.Date(2025, 6, 1, 4, 0, 0, 0, time.UTC)
	if err := s.tick(context.Background(), due); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lookup.queries != 1 {
		t.Errorf("expected 1 idempotency check, got %d", lookup.queries)
	}
}

func TestTick_SkipsExistingRun(t *testing.T) {
	due := time.Date(2025, 6, 1, 4, 0, 0, 0, time.UTC)
	key := fmt.Sprintf("deploy_%d", due.Unix())

	lookup := &fakeLookup{existing: map[string]*domain.Run{
		key: domain.NewRun("deploy"),
	}}

	// Пайплайн, который упал бы при выполнении: nil-ошибка от tick
	// означает, что дубликат тика был пропущен, а не выполнен
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(Config{
		Pipeline: &domain.Pipeline{
			Name: "deploy",
			Steps: []domain.StepDef{
				{ID: "fail", Command: []string{"false"}},
			},
		},
		Runner:   runner.New(runner.Config{Logger: logger}),
		CronExpr: "0 4 * * *",
		Lookup:   lookup,
		Logger:   logger,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.tick(context.Background(), due); err != nil {
		t.Fatalf("duplicate tick must be skipped, got %v", err)
	}
}
