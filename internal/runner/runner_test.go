package runner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/shaiso/Rollout/internal/domain"
)

func testLogger() *slog.Logger {
	// slog.DiscardHandler requires Go 1.24; a text handler on io.Discard is equivalent.
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryRecorder — Recorder в памяти для проверки учёта истории.
type memoryRecorder struct {
	runCreates  int
	runUpdates  int
	stepCreates int
	stepUpdates int
	lastRun     *domain.Run
}

func (m *memoryRecorder) CreateRun(_ context.Context, run *domain.Run) error {
	m.runCreates++
	m.lastRun = run
	return nil
}

func (m *memoryRecorder) UpdateRun(_ context.Context, run *domain.Run) error {
	m.runUpdates++
	m.lastRun = run
	return nil
}

func (m *memoryRecorder) CreateStepResult(_ context.Context, _ *domain.StepResult) error {
	m.stepCreates++
	return nil
}

func (m *memoryRecorder) UpdateStepResult(_ context.Context, _ *domain.StepResult) error {
	m.stepUpdates++
	return nil
}

// memoryNotifier — Notifier в памяти.
type memoryNotifier struct {
	started  int
	finished int
	lastRun  *domain.Run
}

func (m *memoryNotifier) RunStarted(_ context.Context, run *domain.Run) error {
	m.started++
	return nil
}

func (m *memoryNotifier) RunFinished(_ context.Context, run *domain.Run, _ []*domain.StepResult) error {
	m.finished++
	m.lastRun = run
	return nil
}

func installDeps(command []string) domain.StepDef {
	return domain.StepDef{
		ID:        "install-deps",
		Name:      "install dependencies",
		Command:   command,
		OnFailure: domain.PolicyAbort,
	}
}

func migrate(command []string) domain.StepDef {
	return domain.StepDef{
		ID:          "migrate",
		Name:        "apply database migrations",
		Command:     command,
		OnFailure:   domain.PolicyWarnAndContinue,
		RequiresEnv: []string{"ROLLOUT_TEST_APP_ENV"},
		Hint:        "run the migration tool manually",
	}
}

func deployPipeline(install, mig []string) *domain.Pipeline {
	return &domain.Pipeline{
		Name:  "deploy",
		Steps: []domain.StepDef{installDeps(install), migrate(mig)},
	}
}

func TestExecute_AllSucceed(t *testing.T) {
	// Scenario C: оба шага успешны → COMPLETED без предупреждений
	r := New(Config{Logger: testLogger()})

	report, err := r.Execute(context.Background(), deployPipeline(
		[]string{"true"},
		[]string{"true"},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Run.Status != domain.RunStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", report.Run.Status)
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(report.Results))
	}
	for _, sr := range report.Results {
		if sr.Status != domain.StepStatusSucceeded {
			t.Errorf("step %s: expected SUCCEEDED, got %s", sr.StepID, sr.Status)
		}
	}
	if len(report.Warnings()) != 0 {
		t.Errorf("expected no warnings, got %d", len(report.Warnings()))
	}
}

func TestExecute_AbortStopsRun(t *testing.T) {
	// Scenario B: install-deps падает → ABORTED, migrate не запускается
	r := New(Config{Logger: testLogger()})

	report, err := r.Execute(context.Background(), deployPipeline(
		[]string{"sh", "-c", "exit 7"},
		[]string{"true"},
	))

	var fatal *FatalStepError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected FatalStepError, got %v", err)
	}
	if fatal.StepID != "install-deps" {
		t.Errorf("expected failing step install-deps, got %s", fatal.StepID)
	}
	if fatal.ExitCode != 7 {
		t.Errorf("expected exit code 7, got %d", fatal.ExitCode)
	}

	if report.Run.Status != domain.RunStatusAborted {
		t.Errorf("expected ABORTED, got %s", report.Run.Status)
	}
	if report.Run.Error == "" {
		t.Error("aborted run must carry an error")
	}

	// Исход записан только для упавшего шага; migrate не выполнялся
	if len(report.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(report.Results))
	}
	if report.Results[0].Status != domain.StepStatusFailed {
		t.Errorf("expected FAILED, got %s", report.Results[0].Status)
	}
	if report.Results[0].Tolerated {
		t.Error("aborting failure must not be tolerated")
	}
}

func TestExecute_WarnAndContinue(t *testing.T) {
	// Scenario A: install-deps успешен, migrate падает → COMPLETED с предупреждением
	r := New(Config{Logger: testLogger()})

	report, err := r.Execute(context.Background(), deployPipeline(
		[]string{"true"},
		[]string{"false"},
	))
	if err != nil {
		t.Fatalf("tolerated failure must not fail the run: %v", err)
	}

	if report.Run.Status != domain.RunStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", report.Run.Status)
	}

	warnings := report.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}

	sr := warnings[0]
	if sr.StepID != "migrate" {
		t.Errorf("expected warning for migrate, got %s", sr.StepID)
	}
	if sr.Status != domain.StepStatusFailed {
		t.Errorf("expected FAILED, got %s", sr.Status)
	}
	if !sr.Tolerated {
		t.Error("warning must be marked tolerated")
	}
}

func TestExecute_StepAfterToleratedFailureRuns(t *testing.T) {
	// Шаг после tolerated-отказа всё равно выполняется
	r := New(Config{Logger: testLogger()})

	p := &domain.Pipeline{
		Name: "deploy",
		Steps: []domain.StepDef{
			{ID: "a", Command: []string{"false"}, OnFailure: domain.PolicyWarnAndContinue},
			{ID: "b", Command: []string{"true"}},
		},
	}

	report, err := r.Execute(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(report.Results))
	}
	if report.Results[1].Status != domain.StepStatusSucceeded {
		t.Errorf("step b must run after tolerated failure of a, got %s", report.Results[1].Status)
	}
}

func TestExecute_DefaultPolicyIsAbort(t *testing.T) {
	r := New(Config{Logger: testLogger()})

	p := &domain.Pipeline{
		Name: "deploy",
		Steps: []domain.StepDef{
			{ID: "a", Command: []string{"false"}}, // политика не задана
			{ID: "b", Command: []string{"true"}},
		},
	}

	report, err := r.Execute(context.Background(), p)

	var fatal *FatalStepError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected FatalStepError, got %v", err)
	}
	if report.Run.Status != domain.RunStatusAborted {
		t.Errorf("expected ABORTED, got %s", report.Run.Status)
	}
}

func TestExecute_Diagnostic(t *testing.T) {
	// Диагностика tolerated-отказа содержит подсказку и совет
	// выставить обязательную переменную окружения
	t.Setenv("ROLLOUT_TEST_APP_ENV", "")
	r := New(Config{Logger: testLogger()})

	report, err := r.Execute(context.Background(), deployPipeline(
		[]string{"true"},
		[]string{"false"},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := report.Warnings()[0].Message
	if !strings.Contains(msg, "ROLLOUT_TEST_APP_ENV") {
		t.Errorf("diagnostic must mention missing env var, got %q", msg)
	}
	if !strings.Contains(msg, "run the migration tool manually") {
		t.Errorf("diagnostic must include the step hint, got %q", msg)
	}
}

func TestExecute_UnknownStepTypeAborts(t *testing.T) {
	r := New(Config{Logger: testLogger()})

	p := &domain.Pipeline{
		Name: "deploy",
		Steps: []domain.StepDef{
			{ID: "a", Type: "teleport"},
		},
	}

	report, err := r.Execute(context.Background(), p)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if report.Run.Status != domain.RunStatusAborted {
		t.Errorf("expected ABORTED, got %s", report.Run.Status)
	}
}

func TestExecute_NilPipeline(t *testing.T) {
	r := New(Config{Logger: testLogger()})

	_, err := r.Execute(context.Background(), nil)
	if !errors.Is(err, ErrNilPipeline) {
		t.Errorf("expected ErrNilPipeline, got %v", err)
	}
}

func TestExecute_RecorderAndNotifier(t *testing.T) {
	recorder := &memoryRecorder{}
	notifier := &memoryNotifier{}
	r := New(Config{Logger: testLogger(), Recorder: recorder, Notifier: notifier})

	_, err := r.Execute(context.Background(), deployPipeline(
		[]string{"true"},
		[]string{"true"},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if recorder.runCreates != 1 {
		t.Errorf("expected 1 run create, got %d", recorder.runCreates)
	}
	if recorder.runUpdates != 1 {
		t.Errorf("expected 1 run update, got %d", recorder.runUpdates)
	}
	// По записи create+update на каждый из двух шагов
	if recorder.stepCreates != 2 {
		t.Errorf("expected 2 step creates, got %d", recorder.stepCreates)
	}
	if recorder.stepUpdates != 2 {
		t.Errorf("expected 2 step updates, got %d", recorder.stepUpdates)
	}
	if recorder.lastRun.Status != domain.RunStatusCompleted {
		t.Errorf("recorded run must be COMPLETED, got %s", recorder.lastRun.Status)
	}

	if notifier.started != 1 || notifier.finished != 1 {
		t.Errorf("expected started/finished events, got %d/%d", notifier.started, notifier.finished)
	}
	if notifier.lastRun.Status != domain.RunStatusCompleted {
		t.Errorf("finished event must carry COMPLETED, got %s", notifier.lastRun.Status)
	}
}

func TestExecuteRun_PreservesIdempotencyKey(t *testing.T) {
	recorder := &memoryRecorder{}
	r := New(Config{Logger: testLogger(), Recorder: recorder})

	p := deployPipeline([]string{"true"}, []string{"true"})
	run := domain.NewRun(p.Name)
	run.IdempotencyKey = "deploy_1700000000"

	_, err := r.ExecuteRun(context.Background(), p, run)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if recorder.lastRun.IdempotencyKey != "deploy_1700000000" {
		t.Errorf("idempotency key lost: %q", recorder.lastRun.IdempotencyKey)
	}
}
