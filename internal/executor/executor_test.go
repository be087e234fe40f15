package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shaiso/Rollout/internal/domain"
)

// Registry Tests

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	for _, typ := range []string{"command", "delay"} {
		if !r.Has(typ) {
			t.Errorf("default registry should have %s", typ)
		}
	}

	// Пустой тип — command
	exec, err := r.Get("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := exec.(*CommandExecutor); !ok {
		t.Errorf("expected CommandExecutor for empty type, got %T", exec)
	}

	// Несуществующий тип
	_, err = r.Get("teleport")
	if !errors.Is(err, ErrUnknownStepType) {
		t.Errorf("expected ErrUnknownStepType, got %v", err)
	}
}

// Command Executor Tests

func TestCommandExecutor_Success(t *testing.T) {
	exec := &CommandExecutor{}

	result, err := exec.Execute(context.Background(), &domain.StepDef{
		ID:      "ok",
		Command: []string{"true"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", result.ExitCode)
	}
}

func TestCommandExecutor_Failure(t *testing.T) {
	exec := &CommandExecutor{}

	result, err := exec.Execute(context.Background(), &domain.StepDef{
		ID:      "fail",
		Command: []string{"sh", "-c", "exit 3"},
	})
	if !errors.Is(err, ErrCommandFailed) {
		t.Fatalf("expected ErrCommandFailed, got %v", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %d", result.ExitCode)
	}
}

func TestCommandExecutor_StartError(t *testing.T) {
	exec := &CommandExecutor{}

	result, err := exec.Execute(context.Background(), &domain.StepDef{
		ID:      "missing",
		Command: []string{"definitely-not-a-binary-on-this-host"},
	})
	if !errors.Is(err, ErrCommandStart) {
		t.Fatalf("expected ErrCommandStart, got %v", err)
	}
	if result.ExitCode != -1 {
		t.Errorf("expected exit code -1, got %d", result.ExitCode)
	}
}

func TestCommandExecutor_Env(t *testing.T) {
	exec := &CommandExecutor{}

	// Команда видит step.env поверх окружения процесса
	_, err := exec.Execute(context.Background(), &domain.StepDef{
		ID:      "env",
		Command: []string{"sh", "-c", `test "$ROLLOUT_TEST_VALUE" = "42"`},
		Env:     map[string]string{"ROLLOUT_TEST_VALUE": "42"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCommandExecutor_Workdir(t *testing.T) {
	exec := &CommandExecutor{}

	dir := t.TempDir()
	_, err := exec.Execute(context.Background(), &domain.StepDef{
		ID:      "workdir",
		Command: []string{"sh", "-c", `test "$(pwd)" = "$ROLLOUT_TEST_DIR"`},
		Env:     map[string]string{"ROLLOUT_TEST_DIR": dir},
		Workdir: dir,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCommandExecutor_Cancelled(t *testing.T) {
	exec := &CommandExecutor{}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := exec.Execute(ctx, &domain.StepDef{
		ID:      "slow",
		Command: []string{"sleep", "5"},
	})
	elapsed := time.Since(start)

	if !errors.Is(err, ErrStepCancelled) {
		t.Fatalf("expected ErrStepCancelled, got %v", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("cancellation took too long: %v", elapsed)
	}
}

// Delay Executor Tests

func TestDelayExecutor(t *testing.T) {
	exec := &DelayExecutor{}

	start := time.Now()
	result, err := exec.Execute(context.Background(), &domain.StepDef{
		ID:          "settle",
		Type:        "delay",
		DurationSec: 1,
	})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", result.ExitCode)
	}
	if elapsed < time.Second {
		t.Errorf("delay was too short: %v", elapsed)
	}
}

func TestDelayExecutor_Cancelled(t *testing.T) {
	exec := &DelayExecutor{}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := exec.Execute(ctx, &domain.StepDef{
		ID:          "settle",
		Type:        "delay",
		DurationSec: 10,
	})
	elapsed := time.Since(start)

	if !errors.Is(err, ErrStepCancelled) {
		t.Fatalf("expected ErrStepCancelled, got %v", err)
	}
	if elapsed > time.Second {
		t.Errorf("cancellation took too long: %v", elapsed)
	}
}
