// Package history хранит журнал runs и исходов шагов в Postgres.
//
// Хранилище опционально: включается переменной DB_URL. Сам деплой от
// него не зависит — runner пишет историю best effort, отказы БД
// логируются и не валят run.
//
// Схема (применяется идемпотентно через EnsureSchema):
//
//	runs         — прогоны пайплайнов (статус, времена, ошибка, idempotency key)
//	step_results — исходы шагов внутри run (политика, exit code, диагностика)
//
// Store реализует runner.Recorder; репозитории RunRepo и StepResultRepo
// доступны напрямую для команды rollout history.
package history
