package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/backloop/internal/ports/primary"
	"github.com/example/backloop/internal/wire"
)

// ReportCmd returns the report command (faulty track)
func ReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [item-id]",
		Short: "Report a faulty item for exchange or refund",
		Long: `Walk the report-fault track: acknowledge the return guidelines, pick the
problem, choose exchange or refund, and schedule the pickup.

Problems: wrong-color, wrong-size, different-product, damaged, not-working, other
(other requires --description).`,
		Example: `  backloop report 1 --accept-instructions --problem wrong-size --resolution refund
  backloop report 2 --accept-instructions --problem other --description "zip broken" --resolution exchange`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			accept, _ := cmd.Flags().GetBool("accept-instructions")
			problem, _ := cmd.Flags().GetString("problem")
			description, _ := cmd.Flags().GetString("description")
			resolution, _ := cmd.Flags().GetString("resolution")

			svc := wire.ReturnService()
			adapter := wire.ReturnAdapterWithOutput(cmd.OutOrStdout())

			if _, err := adapter.Start(ctx, primary.StartSessionRequest{ItemID: args[0], Intent: "faulty"}); err != nil {
				return err
			}

			steps := []struct {
				action string
				skip   bool
				op     func() (*primary.StepResult, error)
			}{
				{"acknowledge instructions", !accept, func() (*primary.StepResult, error) { return svc.AcceptInstructions(ctx, true) }},
				{"continue to problem", false, func() (*primary.StepResult, error) { return svc.ContinueToProblem(ctx) }},
				{"select problem", problem == "", func() (*primary.StepResult, error) { return svc.SelectProblem(ctx, problem) }},
				{"describe problem", description == "", func() (*primary.StepResult, error) { return svc.DescribeProblem(ctx, description) }},
				{"continue to solution", false, func() (*primary.StepResult, error) { return svc.ContinueToSolution(ctx) }},
				{"select " + resolution, resolution == "", func() (*primary.StepResult, error) { return svc.SelectResolution(ctx, resolution) }},
				{"continue to confirm", false, func() (*primary.StepResult, error) { return svc.ContinueToConfirm(ctx) }},
				{"schedule pickup", false, func() (*primary.StepResult, error) { return svc.SchedulePickup(ctx) }},
			}
			for _, step := range steps {
				if step.skip {
					continue
				}
				if _, err := adapter.Do(step.action, step.op); err != nil {
					return err
				}
			}

			_, err := adapter.Close(ctx)
			return err
		},
	}

	cmd.Flags().Bool("accept-instructions", false, "Confirm you have read the return guidelines")
	cmd.Flags().String("problem", "", "Problem category")
	cmd.Flags().String("description", "", "Describe the problem (required for other)")
	cmd.Flags().String("resolution", "", "exchange or refund")

	return cmd
}
