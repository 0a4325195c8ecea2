package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/backloop/internal/ports/primary"
	"github.com/example/backloop/internal/wire"
)

// ConfirmationsCmd returns the confirmations command
func ConfirmationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "confirmations",
		Short: "Show closed return requests",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored confirmations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			intent, _ := cmd.Flags().GetString("intent")
			limit, _ := cmd.Flags().GetInt("limit")

			_, err := wire.ReturnAdapterWithOutput(cmd.OutOrStdout()).ListConfirmations(cmd.Context(), primary.ConfirmationFilters{
				Intent: intent,
				Limit:  limit,
			})
			return err
		},
	}
	listCmd.Flags().String("intent", "", "Filter by intent (faulty or recycle)")
	listCmd.Flags().Int("limit", 0, "Maximum number of confirmations (0 for all)")

	showCmd := &cobra.Command{
		Use:     "show [request-id]",
		Short:   "Show a stored confirmation",
		Example: `  backloop confirmations show BL-567890`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.ReturnAdapterWithOutput(cmd.OutOrStdout()).ShowConfirmation(cmd.Context(), args[0])
			return err
		},
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(showCmd)
	return cmd
}
