package engine

import "errors"

// Ошибки валидации Pipeline.
var (
	// ErrEmptySteps — пайплайн не содержит шагов.
	ErrEmptySteps = errors.New("pipeline has no steps")

	// ErrEmptyPipelineName — пайплайн не имеет имени.
	ErrEmptyPipelineName = errors.New("pipeline has empty name")

	// ErrEmptyStepID — шаг не имеет ID.
	ErrEmptyStepID = errors.New("step has empty ID")

	// ErrDuplicateStepID — несколько шагов с одинаковым ID.
	ErrDuplicateStepID = errors.New("duplicate step ID")

	// ErrUnknownStepType — неизвестный тип шага.
	ErrUnknownStepType = errors.New("unknown step type")

	// ErrUnknownPolicy — неизвестная политика отказа.
	ErrUnknownPolicy = errors.New("unknown failure policy")

	// ErrEmptyCommand — command-шаг без argv.
	ErrEmptyCommand = errors.New("command step has empty command")

	// ErrInvalidDuration — delay-шаг с неположительной длительностью.
	ErrInvalidDuration = errors.New("delay step has invalid duration")

	// ErrNegativeTimeout — отрицательный таймаут.
	ErrNegativeTimeout = errors.New("negative timeout")
)

// Ошибки загрузки конфигурации.
var (
	// ErrConfigNotFound — файл пайплайна не найден.
	ErrConfigNotFound = errors.New("pipeline file not found")

	// ErrConfigParse — файл пайплайна не распарсился.
	ErrConfigParse = errors.New("pipeline file parse failed")
)

// ValidationError — ошибка валидации с контекстом.
type ValidationError struct {
	StepID  string // ID шага, где произошла ошибка
	Field   string // поле, вызвавшее ошибку
	Message string // описание ошибки
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	if e.StepID != "" {
		return "step " + e.StepID + ": " + e.Message
	}
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError создаёт новую ошибку валидации.
func NewValidationError(stepID, field, message string, err error) *ValidationError {
	return &ValidationError{
		StepID:  stepID,
		Field:   field,
		Message: message,
		Err:     err,
	}
}
