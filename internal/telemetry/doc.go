// Package telemetry обеспечивает наблюдаемость rollout.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики
//
// CLI пишет логи в stderr (stdout занят выводом данных),
// режим schedule дополнительно экспортирует метрики на /metrics endpoint.
package telemetry
