package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/shaiso/Rollout/internal/domain"
)

// DelayExecutor — executor для шага типа "delay".
//
// Пауза между деплой-действиями: дать сервису подняться перед
// миграциями, переждать прогрев кеша и т.п. Поддерживает отмену
// через context.
type DelayExecutor struct{}

// Execute выполняет задержку на StepDef.DurationSec секунд.
func (e *DelayExecutor) Execute(ctx context.Context, step *domain.StepDef) (*Result, error) {
	duration := time.Duration(step.DurationSec) * time.Second

	select {
	case <-time.After(duration):
		return &Result{ExitCode: 0}, nil
	case <-ctx.Done():
		return &Result{ExitCode: -1}, fmt.Errorf("%w: %v", ErrStepCancelled, ctx.Err())
	}
}
