// Package engine отвечает за загрузку и валидацию пайплайнов.
//
// # Обзор
//
// Пайплайн описывается в TOML-файле (по умолчанию rollout.toml):
//
//	name = "deploy"
//
//	[defaults]
//	on_failure = "ABORT"
//
//	[[steps]]
//	id = "install-deps"
//	name = "install dependencies"
//	command = ["pip", "install", "-r", "requirements.txt"]
//
//	[[steps]]
//	id = "migrate"
//	name = "apply database migrations"
//	command = ["flask", "db", "upgrade"]
//	on_failure = "WARN_AND_CONTINUE"
//	requires_env = ["FLASK_APP"]
//	hint = "migrations may not be applied; run the migration tool manually"
//
// Если файла нет, используется встроенный пайплайн Default() с теми же
// двумя шагами.
//
// # Валидация
//
// Validate проверяет структуру пайплайна до начала выполнения:
// уникальность ID, известные типы шагов и политики отказа, непустой
// argv команд. Ошибки валидации типизированы (ValidationError с Unwrap
// до sentinel-ошибки), чтобы CLI мог показать оператору конкретное
// поле и шаг.
//
// # Окружение
//
// LoadEnv подгружает .env из текущей директории, не перезаписывая уже
// выставленные переменные: команды шагов (установщик зависимостей,
// инструмент миграций) видят то же окружение, что и при ручном запуске.
//
// # Файлы пакета
//
//   - loader.go — загрузка TOML, .env, встроенный пайплайн
//   - parser.go — валидация Pipeline и StepDef
//   - errors.go — sentinel-ошибки и ValidationError
package engine
