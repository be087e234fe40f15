// Package runner выполняет деплой-пайплайн.
//
// # Обзор
//
// Runner — ядро rollout: получает провалидированный Pipeline и выполняет
// его шаги строго последовательно. Следующий шаг не начинается, пока
// политика отказа предыдущего не разрешена:
//
//   - шаг SUCCEEDED → идём дальше;
//   - шаг FAILED с политикой ABORT → run немедленно останавливается со
//     статусом ABORTED, оставшиеся шаги не запускаются;
//   - шаг FAILED с политикой WARN_AND_CONTINUE → диагностика с подсказкой
//     оператору, run продолжается и не считается упавшим из-за этого шага.
//
// Машина состояний шага: PENDING → RUNNING → {SUCCEEDED, FAILED}.
// Машина состояний run: PENDING → RUNNING → {COMPLETED, ABORTED};
// переход в ABORTED только из шага ABORT+FAILED.
//
// Retry нет, параллелизма нет, отката выполненных шагов нет: побочные
// эффекты (установленные зависимости, применённые миграции) остаются.
//
// # Учёт и события
//
// Через опциональные интерфейсы Recorder и Notifier runner ведёт историю
// runs в Postgres (internal/history) и публикует события жизненного
// цикла в AMQP (internal/notify). Обе интеграции best effort: их отказ
// логируется, но не влияет на исход деплоя.
//
// # Использование
//
//	r := runner.New(runner.Config{Logger: logger})
//	report, err := r.Execute(ctx, pipeline)
//	var fatal *runner.FatalStepError
//	if errors.As(err, &fatal) {
//	    // run ABORTED: fatal.StepName, fatal.ExitCode
//	}
//	for _, sr := range report.Warnings() {
//	    // tolerated-отказы
//	}
package runner
