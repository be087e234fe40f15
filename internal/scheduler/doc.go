// Package scheduler запускает пайплайн по cron-расписанию.
//
// Режим "rollout schedule" для регулярных maintenance-прогонов:
// ночные миграции, ежедневные отчётные джобы. Cron-выражения парсятся
// через robfig/cron (стандартные пять полей), тики выполняются строго
// последовательно.
//
// При включённой истории каждый тик получает idempotency key
// "{pipeline}_{due_unix}" — перезапуск демона не создаёт дублирующий
// run для уже отработанного тика.
package scheduler
