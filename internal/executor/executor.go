package executor

import (
	"context"
	"fmt"

	"github.com/shaiso/Rollout/internal/domain"
)

// Executor — интерфейс для выполнения конкретного типа шага.
//
// Реализации: CommandExecutor, DelayExecutor.
//
// Исполнитель получает уже провалидированный StepDef. Таймаут шага
// (если задан) приходит через ctx, исполнитель обязан уважать ctx.Done().
type Executor interface {
	Execute(ctx context.Context, step *domain.StepDef) (*Result, error)
}

// Result — результат выполнения шага.
type Result struct {
	// ExitCode — код возврата внешней команды.
	// 0 при успехе, -1 если процесс не удалось запустить
	// (или для шагов без внешнего процесса при ошибке).
	ExitCode int
}

// Registry — реестр executor'ов по типу шага.
type Registry struct {
	executors map[string]Executor
}

// NewRegistry создаёт реестр с зарегистрированными executor'ами по умолчанию.
//
// Регистрирует: command, delay.
func NewRegistry() *Registry {
	r := &Registry{executors: make(map[string]Executor)}
	r.Register("command", &CommandExecutor{})
	r.Register("delay", &DelayExecutor{})
	return r
}

// Register добавляет executor для типа шага.
func (r *Registry) Register(stepType string, executor Executor) {
	r.executors[stepType] = executor
}

// Get возвращает executor для типа шага.
// Пустой тип трактуется как "command".
func (r *Registry) Get(stepType string) (Executor, error) {
	if stepType == "" {
		stepType = "command"
	}
	executor, ok := r.executors[stepType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStepType, stepType)
	}
	return executor, nil
}

// Has проверяет, зарегистрирован ли executor для типа.
func (r *Registry) Has(stepType string) bool {
	_, ok := r.executors[stepType]
	return ok
}
