// Package executor содержит исполнителей типов шагов пайплайна.
//
// # Интерфейс Executor
//
// Все исполнители реализуют интерфейс Executor:
//
//	type Executor interface {
//	    Execute(ctx context.Context, step *domain.StepDef) (*Result, error)
//	}
//
// Result содержит код возврата внешней команды. Ошибки типизированы:
//
//	var (
//	    ErrCommandStart    // процесс не удалось запустить
//	    ErrCommandFailed   // ненулевой код возврата
//	    ErrStepCancelled   // context отменён (таймаут/сигнал)
//	)
//
// Трактовка отказа (фатальный или tolerated) — ответственность runner'а,
// исполнители просто возвращают ошибки.
//
// # Registry
//
// Registry — фабрика для получения Executor по типу шага:
//
//	registry := executor.NewRegistry()  // command, delay
//	exec, err := registry.Get("command")
//
// # Типы шагов
//
// ## Command (command.go)
//
// Запускает внешнюю команду: установщик зависимостей, инструмент
// миграций, произвольный скрипт. stdout/stderr команды идут напрямую
// оператору, окружение наследуется от процесса с наложением step.env.
//
// ## Delay (delay.go)
//
// Пауза между деплой-действиями, отменяемая через context.
package executor
