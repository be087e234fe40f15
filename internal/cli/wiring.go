package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/shaiso/Rollout/internal/history"
	"github.com/shaiso/Rollout/internal/notify"
	"github.com/shaiso/Rollout/internal/runner"
)

// buildRunner собирает Runner с опциональными интеграциями.
//
// История включается переменной DB_URL, события — RABBITMQ_URL.
// Недоступность интеграции не мешает деплою: предупреждение в лог,
// runner работает без неё. Хранилище истории (или nil) возвращается
// вызывающему, cleanup закрывает соединения.
func buildRunner(ctx context.Context, logger *slog.Logger) (*runner.Runner, *history.Store, func()) {
	cfg := runner.Config{Logger: logger}

	var store *history.Store
	if dsn := os.Getenv("DB_URL"); dsn != "" {
		s, err := history.Open(ctx, dsn)
		if err != nil {
			logger.Warn("history disabled: database unavailable", "error", err)
		} else {
			store = s
			cfg.Recorder = s
			logger.Debug("run history enabled")
		}
	}

	var publisher *notify.Publisher
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		p, err := notify.NewPublisher(url, logger)
		if err != nil {
			logger.Warn("notifications disabled: RabbitMQ unavailable", "error", err)
		} else {
			publisher = p
			cfg.Notifier = p
			logger.Debug("run notifications enabled")
		}
	}

	cleanup := func() {
		if publisher != nil {
			publisher.Close()
		}
		if store != nil {
			store.Close()
		}
	}

	return runner.New(cfg), store, cleanup
}

// openHistory открывает хранилище истории. В отличие от buildRunner,
// для команды history отсутствие DB_URL — ошибка, а не деградация.
func openHistory(ctx context.Context) (*history.Store, error) {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		return nil, errDBURLNotSet
	}
	return history.Open(ctx, dsn)
}
