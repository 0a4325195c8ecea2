package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/backloop/internal/wire"
)

// OrdersCmd returns the orders command
func OrdersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orders [order-id]",
		Short: "List orders and the actions each item offers",
		Long: `List the purchase history. Items inside their return window offer
report-fault; every item can be recycled.

With an order ID, show that order with full item names.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter := wire.ReturnAdapterWithOutput(cmd.OutOrStdout())
			if len(args) == 1 {
				_, err := adapter.ShowOrder(cmd.Context(), args[0])
				return err
			}
			_, err := adapter.ListOrders(cmd.Context())
			return err
		},
	}
}
