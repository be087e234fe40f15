package engine

import (
	"fmt"

	"github.com/shaiso/Rollout/internal/domain"
)

// Допустимые типы шагов. Пустой тип трактуется как "command".
var validStepTypes = map[string]bool{
	"command": true,
	"delay":   true,
}

// Validate выполняет полную валидацию Pipeline.
//
// Проверяет:
// - Наличие имени и шагов
// - Уникальность ID шагов
// - Корректность типов шагов и политик отказа
// - Непустой argv для command-шагов
// - Положительную длительность для delay-шагов
// - Неотрицательные таймауты
func Validate(p *domain.Pipeline) error {
	if p == nil {
		return ErrEmptySteps
	}

	if p.Name == "" {
		return ErrEmptyPipelineName
	}

	if len(p.Steps) == 0 {
		return ErrEmptySteps
	}

	if p.Defaults != nil {
		if p.Defaults.OnFailure != "" && !p.Defaults.OnFailure.IsValid() {
			return NewValidationError("", "defaults.on_failure",
				fmt.Sprintf("unknown failure policy: %s", p.Defaults.OnFailure), ErrUnknownPolicy)
		}
		if p.Defaults.TimeoutSec < 0 {
			return NewValidationError("", "defaults.timeout_sec",
				"timeout must not be negative", ErrNegativeTimeout)
		}
	}

	stepIDs := make(map[string]bool)

	for i := range p.Steps {
		if err := ValidateStep(&p.Steps[i], stepIDs); err != nil {
			return err
		}
	}

	return nil
}

// ValidateStep валидирует один шаг.
// stepIDs — уже встреченные ID шагов (для проверки уникальности).
func ValidateStep(step *domain.StepDef, stepIDs map[string]bool) error {
	// Проверка ID
	if step.ID == "" {
		return NewValidationError("", "id", "step has empty ID", ErrEmptyStepID)
	}

	// Проверка уникальности ID
	if stepIDs[step.ID] {
		return NewValidationError(step.ID, "id",
			fmt.Sprintf("duplicate step ID: %s", step.ID), ErrDuplicateStepID)
	}
	stepIDs[step.ID] = true

	// Проверка типа
	stepType := step.Type
	if stepType == "" {
		stepType = "command"
	}
	if !validStepTypes[stepType] {
		return NewValidationError(step.ID, "type",
			fmt.Sprintf("unknown step type: %s", step.Type), ErrUnknownStepType)
	}

	// Проверка политики
	if step.OnFailure != "" && !step.OnFailure.IsValid() {
		return NewValidationError(step.ID, "on_failure",
			fmt.Sprintf("unknown failure policy: %s", step.OnFailure), ErrUnknownPolicy)
	}

	// Проверка таймаута
	if step.TimeoutSec < 0 {
		return NewValidationError(step.ID, "timeout_sec",
			"timeout must not be negative", ErrNegativeTimeout)
	}

	// Специфичные для типа проверки
	switch stepType {
	case "command":
		if len(step.Command) == 0 || step.Command[0] == "" {
			return NewValidationError(step.ID, "command",
				"command step has empty command", ErrEmptyCommand)
		}
	case "delay":
		if step.DurationSec <= 0 {
			return NewValidationError(step.ID, "duration_sec",
				"delay step needs duration_sec > 0", ErrInvalidDuration)
		}
	}

	return nil
}

// IsValidStepType проверяет, является ли тип шага допустимым.
func IsValidStepType(stepType string) bool {
	if stepType == "" {
		return true
	}
	return validStepTypes[stepType]
}

// ValidStepTypes возвращает список допустимых типов шагов.
func ValidStepTypes() []string {
	types := make([]string, 0, len(validStepTypes))
	for t := range validStepTypes {
		types = append(types, t)
	}
	return types
}
