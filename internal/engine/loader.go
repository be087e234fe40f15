package engine

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/shaiso/Rollout/internal/domain"
)

// DefaultPipelineFile — имя файла пайплайна по умолчанию.
const DefaultPipelineFile = "rollout.toml"

// AppEnvVar — переменная окружения, идентифицирующая entry point
// приложения для инструмента миграций.
const AppEnvVar = "FLASK_APP"

// Load загружает пайплайн из TOML-файла и валидирует его.
//
// Если path пустой, пробует DefaultPipelineFile в текущей директории;
// при его отсутствии возвращает встроенный пайплайн Default().
func Load(path string) (*domain.Pipeline, error) {
	if path == "" {
		if _, err := os.Stat(DefaultPipelineFile); err != nil {
			return Default(), nil
		}
		path = DefaultPipelineFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("read pipeline file: %w", err)
	}

	var p domain.Pipeline
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}

	if err := Validate(&p); err != nil {
		return nil, err
	}

	return &p, nil
}

// LoadEnv подгружает переменные окружения из .env файла, если он есть.
// Уже выставленные переменные процесса не перезаписываются — экспорт
// оператора имеет приоритет над файлом.
func LoadEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	return godotenv.Load()
}

// Default возвращает встроенный деплой-пайплайн:
// установка зависимостей из манифеста (фатально), затем применение
// миграций схемы БД (tolerated — прод не должен падать из-за того,
// что миграции уже применены или окружение не настроено).
func Default() *domain.Pipeline {
	return &domain.Pipeline{
		Name:        "deploy",
		Description: "install dependencies and apply database migrations",
		Steps: []domain.StepDef{
			{
				ID:        "install-deps",
				Name:      "install dependencies",
				Command:   []string{"pip", "install", "-r", "requirements.txt"},
				OnFailure: domain.PolicyAbort,
				Hint:      "check requirements.txt and package index availability",
			},
			{
				ID:          "migrate",
				Name:        "apply database migrations",
				Command:     []string{"flask", "db", "upgrade"},
				OnFailure:   domain.PolicyWarnAndContinue,
				RequiresEnv: []string{AppEnvVar},
				Hint:        "migrations may not be applied; run the migration tool manually",
			},
		},
	}
}
