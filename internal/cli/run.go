package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/Rollout/internal/domain"
	"github.com/shaiso/Rollout/internal/engine"
	"github.com/shaiso/Rollout/internal/runner"
	"github.com/shaiso/Rollout/internal/telemetry"
)

// errDBURLNotSet — команда требует настроенную историю.
var errDBURLNotSet = errors.New("DB_URL is not set")

// NewRunCmd создаёт команду выполнения пайплайна.
//
// Код возврата: 0 — COMPLETED (включая tolerated-отказы шагов
// с WARN_AND_CONTINUE), 1 — ABORTED.
func NewRunCmd(outputFn func() *Output) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the deployment pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()
			logger := telemetry.SetupLogger()
			ctx := cmd.Context()

			if err := engine.LoadEnv(); err != nil {
				return fmt.Errorf("load .env: %w", err)
			}

			pipeline, err := engine.Load(file)
			if err != nil {
				return err
			}

			r, _, cleanup := buildRunner(ctx, logger)
			defer cleanup()

			report, runErr := r.Execute(ctx, pipeline)

			printReport(out, report)

			if runErr != nil {
				// *FatalStepError доходит до main и даёт код возврата 1.
				return fmt.Errorf("run aborted: %w", runErr)
			}

			if warnings := report.Warnings(); len(warnings) > 0 {
				for _, sr := range warnings {
					out.Warning(fmt.Sprintf("step %q failed but was tolerated: %s", sr.Name, sr.Message))
				}
			}
			out.Success(fmt.Sprintf("Run completed: %s", report.Run.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Pipeline file (default: rollout.toml, built-in pipeline if absent)")

	return cmd
}

// printReport выводит журнал исходов шагов.
func printReport(out *Output, report *runner.Report) {
	if report == nil {
		return
	}

	headers := []string{"STEP", "NAME", "POLICY", "STATUS", "EXIT", "DURATION", "MESSAGE"}
	rows := make([][]string, len(report.Results))
	for i, sr := range report.Results {
		rows[i] = stepResultRow(sr)
	}

	out.Print(headers, rows, report)
}

// stepResultRow форматирует результат шага в строку таблицы.
func stepResultRow(sr *domain.StepResult) []string {
	status := string(sr.Status)
	if sr.Tolerated {
		status += " (tolerated)"
	}
	return []string{
		sr.StepID,
		sr.Name,
		string(sr.Policy),
		status,
		strconv.Itoa(sr.ExitCode),
		sr.Duration().Truncate(time.Millisecond).String(),
		sr.Message,
	}
}
