package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shaiso/Rollout/internal/domain"
)

// NewHistoryCmd создаёт группу команд для просмотра истории runs.
// Требует настроенный DB_URL.
func NewHistoryCmd(outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse recorded pipeline runs",
	}

	cmd.AddCommand(
		newHistoryListCmd(outputFn),
		newHistoryShowCmd(outputFn),
	)

	return cmd
}

func newHistoryListCmd(outputFn func() *Output) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()
			ctx := cmd.Context()

			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Runs.List(ctx, limit)
			if err != nil {
				return err
			}

			headers := []string{"ID", "PIPELINE", "STATUS", "DURATION", "CREATED"}
			rows := make([][]string, len(runs))
			for i := range runs {
				rows[i] = runRow(&runs[i])
			}

			out.Print(headers, rows, runs)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of results")

	return cmd
}

func newHistoryShowCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show step results of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()
			ctx := cmd.Context()

			runID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid run ID %q: %w", args[0], err)
			}

			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.Runs.GetByID(ctx, runID)
			if err != nil {
				return err
			}

			results, err := store.Results.ListByRun(ctx, runID)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Run %s (%s): %s", run.ID, run.Pipeline, run.Status))
			if run.Error != "" {
				out.Error(run.Error)
			}

			headers := []string{"STEP", "NAME", "POLICY", "STATUS", "EXIT", "DURATION", "MESSAGE"}
			rows := make([][]string, len(results))
			for i := range results {
				rows[i] = stepResultRow(&results[i])
			}

			out.Print(headers, rows, struct {
				Run     *domain.Run         `json:"run"`
				Results []domain.StepResult `json:"results"`
			}{run, results})
			return nil
		},
	}
}

// runRow форматирует run в строку таблицы.
func runRow(run *domain.Run) []string {
	return []string{
		run.ID.String(),
		run.Pipeline,
		string(run.Status),
		run.Duration().Truncate(time.Millisecond).String(),
		run.CreatedAt.Format(time.RFC3339),
	}
}
