package domain

// RunStatus — статус выполнения деплой-прогона.
//
// Жизненный цикл:
//
//	PENDING → RUNNING → COMPLETED
//	                  ↘ ABORTED
//
// Переход в ABORTED возможен только из-за шага с политикой ABORT,
// завершившегося с ошибкой.
type RunStatus string

const (
	// RunStatusPending — run создан, но ещё не начал выполняться.
	RunStatusPending RunStatus = "PENDING"

	// RunStatusRunning — run в процессе выполнения.
	RunStatusRunning RunStatus = "RUNNING"

	// RunStatusCompleted — все шаги отработаны; допускаются tolerated-ошибки
	// шагов с политикой WARN_AND_CONTINUE.
	RunStatusCompleted RunStatus = "COMPLETED"

	// RunStatusAborted — run остановлен фатальной ошибкой шага с политикой ABORT.
	RunStatusAborted RunStatus = "ABORTED"
)

// IsTerminal возвращает true, если статус финальный (run завершён).
func (s RunStatus) IsTerminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusAborted:
		return true
	default:
		return false
	}
}

// StepStatus — статус выполнения одного шага.
//
// Жизненный цикл:
//
//	PENDING → RUNNING → SUCCEEDED
//	                  ↘ FAILED
//
// Шаг не переходит в RUNNING, пока политика отказа предыдущего шага
// не разрешена (предыдущий шаг SUCCEEDED, либо FAILED с WARN_AND_CONTINUE).
type StepStatus string

const (
	// StepStatusPending — шаг ожидает своей очереди.
	StepStatusPending StepStatus = "PENDING"

	// StepStatusRunning — шаг выполняется.
	StepStatusRunning StepStatus = "RUNNING"

	// StepStatusSucceeded — шаг успешно завершён.
	StepStatusSucceeded StepStatus = "SUCCEEDED"

	// StepStatusFailed — шаг завершился с ошибкой.
	// Фатальность определяется политикой шага, а не статусом.
	StepStatusFailed StepStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный.
func (s StepStatus) IsTerminal() bool {
	switch s {
	case StepStatusSucceeded, StepStatusFailed:
		return true
	default:
		return false
	}
}

// FailurePolicy — политика обработки отказа шага.
type FailurePolicy string

const (
	// PolicyAbort — отказ шага останавливает весь run (фатальная ошибка).
	PolicyAbort FailurePolicy = "ABORT"

	// PolicyWarnAndContinue — отказ шага логируется с подсказкой,
	// выполнение продолжается со следующего шага.
	PolicyWarnAndContinue FailurePolicy = "WARN_AND_CONTINUE"
)

// IsValid проверяет, что политика известна.
func (p FailurePolicy) IsValid() bool {
	switch p {
	case PolicyAbort, PolicyWarnAndContinue:
		return true
	default:
		return false
	}
}

// ParseFailurePolicy парсит строку в FailurePolicy.
// Пустая строка трактуется как ABORT — отказ по умолчанию фатален.
func ParseFailurePolicy(s string) FailurePolicy {
	switch s {
	case "WARN_AND_CONTINUE":
		return PolicyWarnAndContinue
	default:
		return PolicyAbort
	}
}
