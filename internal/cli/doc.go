// Package cli реализует команды инструмента rollout.
//
// # Обзор
//
// rollout — CLI деплой-пайплайнов. Команды:
//   - run       — выполнить пайплайн (код возврата 0/1 по исходу)
//   - validate  — проверить файл пайплайна без выполнения
//   - history   — просмотр записанных runs (требует DB_URL)
//   - schedule  — демон-режим: запуск по cron-расписанию
//
// # Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.Encoder с отступами) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Warning/Error) и логи —
// в stderr. Это позволяет использовать pipe: rollout run --json | jq .
//
// # Интеграции
//
// buildRunner включает опциональные интеграции по переменным окружения:
// DB_URL — история runs в Postgres, RABBITMQ_URL — события в RabbitMQ.
// Обе best effort: их недоступность не мешает деплою.
package cli
