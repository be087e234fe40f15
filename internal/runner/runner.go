package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/shaiso/Rollout/internal/domain"
	"github.com/shaiso/Rollout/internal/executor"
	"github.com/shaiso/Rollout/internal/telemetry"
)

// Recorder сохраняет runs и результаты шагов в историю.
// Реализация: history.Store. Nil-recorder допустим — история не ведётся.
type Recorder interface {
	CreateRun(ctx context.Context, run *domain.Run) error
	UpdateRun(ctx context.Context, run *domain.Run) error
	CreateStepResult(ctx context.Context, result *domain.StepResult) error
	UpdateStepResult(ctx context.Context, result *domain.StepResult) error
}

// Notifier публикует события жизненного цикла run.
// Реализация: notify.Publisher. Nil-notifier допустим.
type Notifier interface {
	RunStarted(ctx context.Context, run *domain.Run) error
	RunFinished(ctx context.Context, run *domain.Run, results []*domain.StepResult) error
}

// Runner выполняет пайплайн: шаги строго последовательно, следующий
// шаг не начинается, пока политика отказа предыдущего не разрешена.
//
// Сам runner свободен от побочных эффектов — все эффекты (установка
// зависимостей, мутация схемы БД) принадлежат внешним командам шагов.
// Runner только управляет процессами, логирует и ведёт учёт исходов.
type Runner struct {
	registry *executor.Registry
	recorder Recorder
	notifier Notifier
	logger   *slog.Logger
}

// Config — конфигурация Runner.
type Config struct {
	// Registry — реестр executor'ов (опционально; nil — NewRegistry()).
	Registry *executor.Registry

	// Recorder — хранилище истории (опционально).
	Recorder Recorder

	// Notifier — издатель событий (опционально).
	Notifier Notifier

	// Logger — логгер (опционально; nil — slog.Default()).
	Logger *slog.Logger
}

// New создаёт новый Runner.
func New(cfg Config) *Runner {
	registry := cfg.Registry
	if registry == nil {
		registry = executor.NewRegistry()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		registry: registry,
		recorder: cfg.Recorder,
		notifier: cfg.Notifier,
		logger:   logger,
	}
}

// Report — итог прогона: run и журнал исходов шагов.
//
// Results содержит записи только для шагов, которые начали выполняться:
// шаги после фатального отказа не запускаются и исходов не имеют.
type Report struct {
	Run     *domain.Run
	Results []*domain.StepResult
}

// Warnings возвращает tolerated-отказы шагов.
func (r *Report) Warnings() []*domain.StepResult {
	var warned []*domain.StepResult
	for _, sr := range r.Results {
		if sr.Tolerated {
			warned = append(warned, sr)
		}
	}
	return warned
}

// Execute выполняет пайплайн от начала до конца.
//
// Шаги выполняются в порядке объявления. Отказ шага с политикой ABORT
// немедленно останавливает run (статус ABORTED, возвращается
// *FatalStepError); отказ с WARN_AND_CONTINUE логируется с подсказкой
// оператору, и выполнение продолжается. Report возвращается всегда.
//
// Отката уже выполненных шагов нет: их побочные эффекты остаются.
func (r *Runner) Execute(ctx context.Context, p *domain.Pipeline) (*Report, error) {
	if p == nil {
		return nil, ErrNilPipeline
	}

	run := domain.NewRun(p.Name)
	return r.ExecuteRun(ctx, p, run)
}

// ExecuteRun выполняет пайплайн в рамках заранее созданного run
// (scheduler создаёт run с idempotency key до запуска).
func (r *Runner) ExecuteRun(ctx context.Context, p *domain.Pipeline, run *domain.Run) (*Report, error) {
	logger := telemetry.WithRunID(telemetry.WithPipeline(r.logger, p.Name), run.ID.String())

	run.MarkRunning()
	r.recordRunCreate(ctx, logger, run)

	if r.notifier != nil {
		if err := r.notifier.RunStarted(ctx, run); err != nil {
			logger.Warn("failed to publish run.started", "error", err)
		}
	}

	logger.Info("run started", "steps", len(p.Steps))

	report := &Report{Run: run}
	var fatal *FatalStepError

	for i := range p.Steps {
		step := &p.Steps[i]
		policy := step.EffectivePolicy(p.Defaults)

		result, err := r.executeStep(ctx, logger, p, run, step, policy)
		report.Results = append(report.Results, result)

		if err == nil {
			continue
		}

		if policy == domain.PolicyWarnAndContinue {
			// Tolerated-отказ: run не падает из-за этого шага.
			result.Tolerated = true
			r.recordStepUpdate(ctx, logger, result)
			logger.Warn("step failed, continuing",
				"step_id", step.ID,
				"step", step.DisplayName(),
				"exit_code", result.ExitCode,
				"message", result.Message,
			)
			continue
		}

		// Фатальный отказ: останавливаемся немедленно,
		// оставшиеся шаги не запускаются.
		fatal = &FatalStepError{
			StepID:   step.ID,
			StepName: step.DisplayName(),
			ExitCode: result.ExitCode,
			Err:      err,
		}
		break
	}

	if fatal != nil {
		run.MarkAborted(fatal.Error())
		telemetry.RunsTotal.WithLabelValues(string(domain.RunStatusAborted)).Inc()
		logger.Error("run aborted",
			"step_id", fatal.StepID,
			"step", fatal.StepName,
			"exit_code", fatal.ExitCode,
		)
	} else {
		run.MarkCompleted()
		telemetry.RunsTotal.WithLabelValues(string(domain.RunStatusCompleted)).Inc()
		logger.Info("run completed",
			"duration", run.Duration().String(),
			"warnings", len(report.Warnings()),
		)
	}

	r.recordRunUpdate(ctx, logger, run)

	if r.notifier != nil {
		if err := r.notifier.RunFinished(ctx, run, report.Results); err != nil {
			logger.Warn("failed to publish run finished event", "error", err)
		}
	}

	if fatal != nil {
		return report, fatal
	}
	return report, nil
}

// executeStep выполняет один шаг и возвращает его записанный исход.
// Ошибка non-nil означает отказ шага; её трактовка — по политике.
func (r *Runner) executeStep(ctx context.Context, logger *slog.Logger, p *domain.Pipeline, run *domain.Run, step *domain.StepDef, policy domain.FailurePolicy) (*domain.StepResult, error) {
	stepLogger := telemetry.WithStepID(logger, step.ID)

	result := domain.NewStepResult(run.ID, step, policy)
	result.MarkRunning()
	r.recordStepCreate(ctx, stepLogger, result)

	stepLogger.Info("step started", "step", step.DisplayName())

	exec, err := r.registry.Get(step.Type)
	if err != nil {
		result.MarkFailed(-1, err.Error())
		r.recordStepUpdate(ctx, stepLogger, result)
		return result, err
	}

	stepCtx := ctx
	if timeout := step.EffectiveTimeout(p.Defaults); timeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	execResult, err := exec.Execute(stepCtx, step)

	if err != nil {
		exitCode := -1
		if execResult != nil {
			exitCode = execResult.ExitCode
		}
		result.MarkFailed(exitCode, diagnostic(step, err))
		r.recordStepUpdate(ctx, stepLogger, result)
		telemetry.StepDuration.WithLabelValues(step.ID).Observe(result.Duration().Seconds())
		telemetry.StepFailuresTotal.WithLabelValues(string(policy)).Inc()
		return result, err
	}

	result.MarkSucceeded()
	r.recordStepUpdate(ctx, stepLogger, result)
	telemetry.StepDuration.WithLabelValues(step.ID).Observe(result.Duration().Seconds())
	stepLogger.Info("step succeeded", "duration", result.Duration().String())

	return result, nil
}

// diagnostic собирает сообщение об отказе шага: ошибка исполнителя,
// невыставленные обязательные переменные окружения и подсказка из
// определения шага.
func diagnostic(step *domain.StepDef, err error) string {
	parts := []string{err.Error()}

	for _, name := range step.RequiresEnv {
		if os.Getenv(name) == "" {
			parts = append(parts, fmt.Sprintf("environment variable %s is not set; export it and re-run", name))
		}
	}

	if step.Hint != "" {
		parts = append(parts, step.Hint)
	}

	return strings.Join(parts, "; ")
}

// --- Учёт истории (best effort: отказ хранилища не валит деплой) ---

func (r *Runner) recordRunCreate(ctx context.Context, logger *slog.Logger, run *domain.Run) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.CreateRun(ctx, run); err != nil {
		logger.Warn("failed to record run", "error", err)
	}
}

func (r *Runner) recordRunUpdate(ctx context.Context, logger *slog.Logger, run *domain.Run) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.UpdateRun(ctx, run); err != nil {
		logger.Warn("failed to update run record", "error", err)
	}
}

func (r *Runner) recordStepCreate(ctx context.Context, logger *slog.Logger, result *domain.StepResult) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.CreateStepResult(ctx, result); err != nil {
		logger.Warn("failed to record step result", "error", err)
	}
}

func (r *Runner) recordStepUpdate(ctx context.Context, logger *slog.Logger, result *domain.StepResult) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.UpdateStepResult(ctx, result); err != nil {
		logger.Warn("failed to update step result", "error", err)
	}
}
