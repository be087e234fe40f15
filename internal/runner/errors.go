package runner

import (
	"errors"
	"fmt"
)

// Ошибки runner'а.
var (
	// ErrRunAborted — run остановлен фатальной ошибкой шага.
	ErrRunAborted = errors.New("run aborted")

	// ErrNilPipeline — runner получил nil pipeline.
	ErrNilPipeline = errors.New("nil pipeline")
)

// FatalStepError — фатальная ошибка шага с политикой ABORT.
//
// Останавливает run; оператор видит имя упавшего шага и код возврата
// внешнего инструмента.
type FatalStepError struct {
	StepID   string // ID упавшего шага
	StepName string // человекочитаемое имя шага
	ExitCode int    // код возврата внешней команды
	Err      error  // базовая ошибка исполнителя
}

// Error реализует интерфейс error.
func (e *FatalStepError) Error() string {
	return fmt.Sprintf("step %q failed (exit %d): %v", e.StepName, e.ExitCode, e.Err)
}

// Unwrap возвращает базовую ошибку.
func (e *FatalStepError) Unwrap() error {
	return e.Err
}
