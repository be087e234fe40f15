package domain

import (
	"time"

	"github.com/google/uuid"
)

// Run — один прогон пайплайна.
//
// Run создаётся когда:
// - Оператор запускает пайплайн вручную (rollout run)
// - Запуск срабатывает по расписанию (rollout schedule)
type Run struct {
	// ID — уникальный идентификатор run.
	ID uuid.UUID `json:"id"`

	// Pipeline — имя пайплайна, который выполняется.
	Pipeline string `json:"pipeline"`

	// Status — текущий статус выполнения.
	Status RunStatus `json:"status"`

	// StartedAt — время начала выполнения (когда статус стал RUNNING).
	// Nil, если run ещё не начался.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения. Nil, если run ещё выполняется.
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// Error — описание фатальной ошибки, если run завершился ABORTED.
	Error string `json:"error,omitempty"`

	// IdempotencyKey — ключ идемпотентности для scheduled runs:
	// "{pipeline}_{due_at_unix}". Пустой для ручных запусков.
	IdempotencyKey string `json:"idempotency_key,omitempty"`

	// CreatedAt — время создания run.
	CreatedAt time.Time `json:"created_at"`
}

// NewRun создаёт run в статусе PENDING.
func NewRun(pipeline string) *Run {
	return &Run{
		ID:        uuid.New(),
		Pipeline:  pipeline,
		Status:    RunStatusPending,
		CreatedAt: time.Now(),
	}
}

// Duration возвращает продолжительность выполнения.
// Возвращает 0, если run ещё не завершён.
func (r *Run) Duration() time.Duration {
	if r.StartedAt == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(*r.StartedAt)
}

// IsFinished возвращает true, если run завершён (в любом статусе).
func (r *Run) IsFinished() bool {
	return r.Status.IsTerminal()
}

// MarkRunning переводит run в статус RUNNING.
func (r *Run) MarkRunning() {
	now := time.Now()
	r.Status = RunStatusRunning
	r.StartedAt = &now
}

// MarkCompleted переводит run в статус COMPLETED.
func (r *Run) MarkCompleted() {
	now := time.Now()
	r.Status = RunStatusCompleted
	r.FinishedAt = &now
}

// MarkAborted переводит run в статус ABORTED с описанием ошибки.
func (r *Run) MarkAborted(err string) {
	now := time.Now()
	r.Status = RunStatusAborted
	r.FinishedAt = &now
	r.Error = err
}

// StepResult — записанный исход одного шага внутри run.
type StepResult struct {
	// ID — уникальный идентификатор результата.
	ID uuid.UUID `json:"id"`

	// RunID — ссылка на родительский run.
	RunID uuid.UUID `json:"run_id"`

	// StepID — ID шага из Pipeline (соответствует StepDef.ID).
	StepID string `json:"step_id"`

	// Name — имя шага (копия StepDef.Name, для удобства чтения истории).
	Name string `json:"name"`

	// Policy — политика отказа, действовавшая для шага.
	Policy FailurePolicy `json:"policy"`

	// Status — статус шага.
	Status StepStatus `json:"status"`

	// ExitCode — код возврата внешней команды. 0 при успехе,
	// -1 если команду не удалось запустить.
	ExitCode int `json:"exit_code"`

	// Message — диагностика: текст ошибки и подсказка оператору.
	// Пустая при успехе.
	Message string `json:"message,omitempty"`

	// Tolerated — true, если шаг FAILED, но политика WARN_AND_CONTINUE
	// позволила продолжить run.
	Tolerated bool `json:"tolerated,omitempty"`

	// StartedAt — время начала выполнения шага.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения шага.
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// CreatedAt — время создания записи.
	CreatedAt time.Time `json:"created_at"`
}

// NewStepResult создаёт результат шага в статусе PENDING.
func NewStepResult(runID uuid.UUID, step *StepDef, policy FailurePolicy) *StepResult {
	return &StepResult{
		ID:        uuid.New(),
		RunID:     runID,
		StepID:    step.ID,
		Name:      step.DisplayName(),
		Policy:    policy,
		Status:    StepStatusPending,
		CreatedAt: time.Now(),
	}
}

// Duration возвращает продолжительность выполнения шага.
func (sr *StepResult) Duration() time.Duration {
	if sr.StartedAt == nil || sr.FinishedAt == nil {
		return 0
	}
	return sr.FinishedAt.Sub(*sr.StartedAt)
}

// MarkRunning переводит результат в статус RUNNING.
func (sr *StepResult) MarkRunning() {
	now := time.Now()
	sr.Status = StepStatusRunning
	sr.StartedAt = &now
}

// MarkSucceeded переводит результат в статус SUCCEEDED.
func (sr *StepResult) MarkSucceeded() {
	now := time.Now()
	sr.Status = StepStatusSucceeded
	sr.ExitCode = 0
	sr.FinishedAt = &now
}

// MarkFailed переводит результат в статус FAILED с кодом возврата
// и диагностикой. Tolerated выставляется runner'ом по политике.
func (sr *StepResult) MarkFailed(exitCode int, message string) {
	now := time.Now()
	sr.Status = StepStatusFailed
	sr.ExitCode = exitCode
	sr.Message = message
	sr.FinishedAt = &now
}
