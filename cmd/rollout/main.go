// rollout — инструмент выполнения деплой-пайплайнов.
//
// Выполняет упорядоченные шаги деплоя (установка зависимостей,
// миграции схемы БД) с политикой отказа на каждом шаге:
// ABORT останавливает прогон, WARN_AND_CONTINUE логирует и продолжает.
//
// Использование:
//
//	rollout [--json] <command> [flags]
//
// Команды:
//
//	run       Выполнить пайплайн
//	validate  Проверить файл пайплайна
//	history   Просмотр записанных runs
//	schedule  Запуск по cron-расписанию
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shaiso/Rollout/internal/cli"
	"github.com/shaiso/Rollout/internal/runner"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "rollout",
		Short:         "rollout — deployment pipeline runner",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewRunCmd(outputFn),
		cli.NewValidateCmd(outputFn),
		cli.NewHistoryCmd(outputFn),
		cli.NewScheduleCmd(outputFn),
	)

	// graceful shutdown: Ctrl-C прерывает текущую команду шага
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)

		// ABORTED прогон — штатный исход с кодом 1;
		// ошибки самого инструмента (конфигурация, БД) — код 2.
		var fatal *runner.FatalStepError
		if errors.As(err, &fatal) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
