package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shaiso/Rollout/internal/domain"
	"github.com/shaiso/Rollout/internal/history"
	"github.com/shaiso/Rollout/internal/runner"
)

// RunLookup проверяет, не был ли run для данного тика уже создан.
// Реализация: history.RunRepo. Nil-lookup допустим — без дедупликации.
type RunLookup interface {
	GetByIdempotencyKey(ctx context.Context, pipeline, key string) (*domain.Run, error)
}

// Scheduler запускает пайплайн по cron-расписанию.
//
// Один scheduler обслуживает один пайплайн: это режим
// "rollout schedule --cron ..." для регулярных maintenance-прогонов
// (ночные миграции, повторная установка зависимостей после обновления
// манифеста). Тики выполняются строго по одному — следующий запуск не
// начнётся, пока не завершился текущий run.
type Scheduler struct {
	pipeline *domain.Pipeline
	runner   *runner.Runner
	schedule cron.Schedule
	loc      *time.Location
	lookup   RunLookup
	logger   *slog.Logger
}

// Config — конфигурация Scheduler.
type Config struct {
	Pipeline *domain.Pipeline
	Runner   *runner.Runner
	CronExpr string
	Timezone string    // пустая — локальная зона процесса
	Lookup   RunLookup // опционально, для идемпотентности тиков
	Logger   *slog.Logger
}

// New создаёт новый Scheduler.
func New(cfg Config) (*Scheduler, error) {
	schedule, err := ParseCron(cfg.CronExpr)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	loc := time.Local
	if cfg.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			// Fallback на UTC если timezone невалидный
			loc = time.UTC
		}
	}

	return &Scheduler{
		pipeline: cfg.Pipeline,
		runner:   cfg.Runner,
		schedule: schedule,
		loc:      loc,
		lookup:   cfg.Lookup,
		logger:   logger,
	}, nil
}

// Run крутит цикл расписания до отмены контекста.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		now := time.Now().In(s.loc)
		next := s.schedule.Next(now)

		s.logger.Info("next scheduled run",
			"pipeline", s.pipeline.Name,
			"due_at", next.Format(time.RFC3339),
		)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if err := s.tick(ctx, next); err != nil {
			s.logger.Error("scheduled run failed",
				"pipeline", s.pipeline.Name,
				"error", err,
			)
			// Фатальный отказ одного тика не останавливает расписание:
			// следующий запуск может пройти (манифест починили, БД поднялась).
		}
	}
}

// tick выполняет один запланированный запуск.
func (s *Scheduler) tick(ctx context.Context, due time.Time) error {
	// Idempotency key: "{pipeline}_{due_unix}". Для одного пайплайна
	// и конкретного тика создаётся только один run.
	idempKey := fmt.Sprintf("%s_%d", s.pipeline.Name, due.Unix())

	if s.lookup != nil {
		existing, err := s.lookup.GetByIdempotencyKey(ctx, s.pipeline.Name, idempKey)
		if err != nil && !errors.Is(err, history.ErrNotFound) {
			return fmt.Errorf("check idempotency: %w", err)
		}
		if existing != nil {
			s.logger.Debug("run already exists (idempotency)",
				"run_id", existing.ID,
				"idempotency_key", idempKey,
			)
			return nil
		}
	}

	run := domain.NewRun(s.pipeline.Name)
	run.IdempotencyKey = idempKey

	s.logger.Info("starting scheduled run",
		"run_id", run.ID,
		"idempotency_key", idempKey,
	)

	_, err := s.runner.ExecuteRun(ctx, s.pipeline, run)
	return err
}
