package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaiso/Rollout/internal/engine"
)

// NewValidateCmd создаёт команду проверки файла пайплайна.
func NewValidateCmd(outputFn func() *Output) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the pipeline file without executing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			pipeline, err := engine.Load(file)
			if err != nil {
				return err
			}

			headers := []string{"STEP", "NAME", "TYPE", "ON_FAILURE"}
			rows := make([][]string, len(pipeline.Steps))
			for i := range pipeline.Steps {
				step := &pipeline.Steps[i]
				stepType := step.Type
				if stepType == "" {
					stepType = "command"
				}
				rows[i] = []string{
					step.ID,
					step.DisplayName(),
					stepType,
					string(step.EffectivePolicy(pipeline.Defaults)),
				}
			}

			out.Print(headers, rows, pipeline)
			out.Success(fmt.Sprintf("Pipeline %q is valid: %d step(s)", pipeline.Name, len(pipeline.Steps)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Pipeline file (default: rollout.toml, built-in pipeline if absent)")

	return cmd
}
