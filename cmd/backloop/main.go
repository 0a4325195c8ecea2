package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/example/backloop/internal/cli"
	"github.com/example/backloop/internal/version"
	"github.com/example/backloop/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "backloop",
		Short:   "Backloop - return or recycle purchased items",
		Version: version.String(),
		Long: `Backloop walks a customer through returning a faulty item for exchange
or refund, or recycling an item for store credit with a pickup.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			level, err := wire.Config().Level()
			if err != nil {
				return err
			}
			slog.SetDefault(cli.NewLogger(os.Stderr, level, verbose))
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every wizard transition to stderr")

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.OrdersCmd())
	rootCmd.AddCommand(cli.ReportCmd())
	rootCmd.AddCommand(cli.RecycleCmd())
	rootCmd.AddCommand(cli.ConfirmationsCmd())
	rootCmd.AddCommand(cli.VersionCmd())

	// Interrupt cancels a pending photo check or estimate.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
