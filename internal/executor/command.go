package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/shaiso/Rollout/internal/domain"
)

// CommandExecutor — executor для шага типа "command".
//
// Запускает внешнюю команду (argv из StepDef.Command) и ждёт её
// завершения. stdout/stderr команды прозрачно идут в терминал
// оператора — вывод установщика зависимостей и инструмента миграций
// принадлежит им, runner его не интерпретирует.
//
// Окружение: окружение процесса + StepDef.Env поверх. Побочные эффекты
// шага N (установленные пакеты, изменённая схема) видны шагу N+1 —
// изоляции нет намеренно.
type CommandExecutor struct{}

// Execute запускает команду шага и ждёт её завершения.
//
// Возвращает Result с кодом возврата. При ненулевом коде — ошибку,
// оборачивающую ErrCommandFailed; если процесс не удалось запустить —
// ErrCommandStart с ExitCode -1; при отмене контекста — ErrStepCancelled.
func (e *CommandExecutor) Execute(ctx context.Context, step *domain.StepDef) (*Result, error) {
	argv := step.Command
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	cmd.Env = os.Environ()
	for k, v := range step.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	if step.Workdir != "" {
		cmd.Dir = step.Workdir
	}

	err := cmd.Run()
	if err == nil {
		return &Result{ExitCode: 0}, nil
	}

	// Отмена контекста (таймаут шага или сигнал) важнее кода возврата:
	// убитый процесс вернёт -1/сигнальный код, но оператору нужна причина.
	if ctx.Err() != nil {
		return &Result{ExitCode: -1}, fmt.Errorf("%w: %v", ErrStepCancelled, ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		return &Result{ExitCode: code}, fmt.Errorf("%w: exit status %d", ErrCommandFailed, code)
	}

	return &Result{ExitCode: -1}, fmt.Errorf("%w: %v", ErrCommandStart, err)
}
