package executor

import "errors"

// Ошибки исполнителей шагов.
var (
	// ErrUnknownStepType — нет executor'а для данного типа шага.
	ErrUnknownStepType = errors.New("unknown step type")

	// ErrCommandStart — внешнюю команду не удалось запустить
	// (бинарник не найден, нет прав и т.п.).
	ErrCommandStart = errors.New("command start failed")

	// ErrCommandFailed — внешняя команда завершилась с ненулевым кодом.
	ErrCommandFailed = errors.New("command failed")

	// ErrStepCancelled — выполнение шага отменено (таймаут или сигнал).
	ErrStepCancelled = errors.New("step execution cancelled")
)
