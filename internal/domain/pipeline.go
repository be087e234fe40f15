package domain

import "time"

// Pipeline — определение деплой-пайплайна.
//
// Pipeline — это "рецепт" деплоя: упорядоченный список шагов,
// каждый со своей политикой отказа. Список строится один раз
// при старте процесса из статической конфигурации и не мутирует.
type Pipeline struct {
	// Name — имя пайплайна (например, "deploy", "nightly-maintenance").
	Name string `toml:"name" json:"name"`

	// Description — описание назначения пайплайна.
	Description string `toml:"description,omitempty" json:"description,omitempty"`

	// Defaults — настройки по умолчанию для всех шагов.
	Defaults *StepDefaults `toml:"defaults,omitempty" json:"defaults,omitempty"`

	// Steps — упорядоченный список шагов. Выполняются строго
	// в порядке объявления.
	Steps []StepDef `toml:"steps" json:"steps"`
}

// StepDefaults — настройки по умолчанию для шагов.
type StepDefaults struct {
	// OnFailure — политика отказа по умолчанию (default: ABORT).
	OnFailure FailurePolicy `toml:"on_failure,omitempty" json:"on_failure,omitempty"`

	// TimeoutSec — таймаут выполнения в секундах.
	// 0 (по умолчанию) — без таймаута: шаг блокирует до завершения команды.
	TimeoutSec int `toml:"timeout_sec,omitempty" json:"timeout_sec,omitempty"`
}

// StepDef — определение шага пайплайна.
type StepDef struct {
	// ID — уникальный идентификатор шага в рамках пайплайна.
	ID string `toml:"id" json:"id"`

	// Name — человекочитаемое имя шага (например, "install dependencies").
	Name string `toml:"name,omitempty" json:"name,omitempty"`

	// Type — тип шага: "command", "delay".
	// Пустой тип трактуется как "command".
	Type string `toml:"type,omitempty" json:"type,omitempty"`

	// Command — argv внешней команды (для type="command").
	// Команда — непрозрачный внешний коллаборатор: установщик зависимостей,
	// инструмент миграций и т.п. Идемпотентность — его ответственность.
	Command []string `toml:"command,omitempty" json:"command,omitempty"`

	// OnFailure — политика отказа. Переопределяет defaults.on_failure.
	OnFailure FailurePolicy `toml:"on_failure,omitempty" json:"on_failure,omitempty"`

	// Hint — подсказка оператору, выводится при отказе шага.
	Hint string `toml:"hint,omitempty" json:"hint,omitempty"`

	// RequiresEnv — переменные окружения, нужные команде шага.
	// Если при отказе шага какая-то из них не выставлена, диагностика
	// подскажет оператору выставить её.
	RequiresEnv []string `toml:"requires_env,omitempty" json:"requires_env,omitempty"`

	// Env — дополнительные переменные окружения для команды (KEY=VALUE
	// поверх окружения процесса).
	Env map[string]string `toml:"env,omitempty" json:"env,omitempty"`

	// Workdir — рабочая директория команды. Пустая — директория процесса.
	Workdir string `toml:"workdir,omitempty" json:"workdir,omitempty"`

	// TimeoutSec — таймаут этого шага. Переопределяет defaults.timeout_sec.
	TimeoutSec int `toml:"timeout_sec,omitempty" json:"timeout_sec,omitempty"`

	// DurationSec — длительность паузы (для type="delay").
	DurationSec int `toml:"duration_sec,omitempty" json:"duration_sec,omitempty"`
}

// EffectivePolicy возвращает политику отказа шага с учётом defaults.
// Если политика не задана нигде — ABORT.
func (s *StepDef) EffectivePolicy(defaults *StepDefaults) FailurePolicy {
	if s.OnFailure != "" {
		return s.OnFailure
	}
	if defaults != nil && defaults.OnFailure != "" {
		return defaults.OnFailure
	}
	return PolicyAbort
}

// EffectiveTimeout возвращает таймаут шага с учётом defaults.
// 0 — без таймаута.
func (s *StepDef) EffectiveTimeout(defaults *StepDefaults) time.Duration {
	sec := s.TimeoutSec
	if sec == 0 && defaults != nil {
		sec = defaults.TimeoutSec
	}
	if sec <= 0 {
		return 0
	}
	return time.Duration(sec) * time.Second
}

// DisplayName возвращает имя шага для логов: Name, либо ID.
func (s *StepDef) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}
