package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/backloop/internal/ports/primary"
	"github.com/example/backloop/internal/wire"
)

// RecycleCmd returns the recycle command (recycle track)
func RecycleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recycle [item-id]",
		Short: "Recycle an item for store credit",
		Long: `Walk the recycle track: upload a product photo, describe the condition,
optionally add a receipt code, review the credit estimate, and schedule
the pickup.

The estimate is 30% of the item price, scaled by condition (excellent 1.4,
good 1.2, fair 1.0, poor 0.6) and by 1.1 with a receipt code. A pickup fee
applies below the free-pickup cart value.`,
		Example: `  backloop recycle 1 --photo bottle.webp --condition "Good condition, minor scratch"
  backloop recycle 4 --photo bag.webp --condition excellent --receipt ECO-2025-001127 --add-item "Used Books"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			photoPath, _ := cmd.Flags().GetString("photo")
			photoType, _ := cmd.Flags().GetString("photo-type")
			condition, _ := cmd.Flags().GetString("condition")
			receipt, _ := cmd.Flags().GetString("receipt")
			addItems, _ := cmd.Flags().GetStringArray("add-item")

			req := primary.StartSessionRequest{ItemID: args[0], Intent: "recycle"}
			if cmd.Flags().Changed("cart-value") {
				cartValue, _ := cmd.Flags().GetInt64("cart-value")
				req.CartValue = &cartValue
			}

			var upload *primary.UploadPhotoRequest
			if photoPath != "" {
				data, err := os.ReadFile(photoPath)
				if err != nil {
					return fmt.Errorf("failed to read photo: %w", err)
				}
				if photoType == "" {
					photoType = MediaTypeFor(photoPath)
				}
				upload = &primary.UploadPhotoRequest{Filename: filepath.Base(photoPath), MediaType: photoType, Data: data}
			}

			svc := wire.ReturnService()
			out := cmd.OutOrStdout()
			adapter := wire.ReturnAdapterWithOutput(out)

			if _, err := adapter.Start(ctx, req); err != nil {
				return err
			}

			if upload != nil {
				fmt.Fprintln(out, "  Checking photo...")
				if _, err := adapter.Do("upload photo", func() (*primary.StepResult, error) { return svc.UploadPhoto(ctx, *upload) }); err != nil {
					return err
				}
			}
			for _, name := range addItems {
				if _, err := adapter.Do("add "+name+" to cart", func() (*primary.StepResult, error) { return svc.AddCartItem(ctx, name) }); err != nil {
					return err
				}
			}
			if condition != "" {
				if _, err := adapter.Do("describe condition", func() (*primary.StepResult, error) { return svc.SetCondition(ctx, condition) }); err != nil {
					return err
				}
			}
			if receipt != "" {
				if _, err := adapter.Do("add receipt", func() (*primary.StepResult, error) { return svc.SetReceiptCode(ctx, receipt) }); err != nil {
					return err
				}
			}

			fmt.Fprintln(out, "  Estimating credit...")
			steps := []struct {
				action string
				op     func() (*primary.StepResult, error)
			}{
				{"request estimate", func() (*primary.StepResult, error) { return svc.RequestEstimate(ctx) }},
				{"accept estimate", func() (*primary.StepResult, error) { return svc.AcceptEstimate(ctx) }},
				{"schedule pickup", func() (*primary.StepResult, error) { return svc.SchedulePickup(ctx) }},
			}
			for _, step := range steps {
				if _, err := adapter.Do(step.action, step.op); err != nil {
					return err
				}
			}

			_, err := adapter.Close(ctx)
			return err
		},
	}

	cmd.Flags().String("photo", "", "Path to a product photo")
	cmd.Flags().String("photo-type", "", "Media type of the photo (default: from the file extension)")
	cmd.Flags().String("condition", "", "Describe the item condition")
	cmd.Flags().String("receipt", "", "Receipt code (ECO-YYYY-XXXXXX)")
	cmd.Flags().Int64("cart-value", 0, "Current cart value (default from config)")
	cmd.Flags().StringArray("add-item", nil, "Add an item to the cart (repeatable)")

	return cmd
}

// MediaTypeFor guesses a photo's media type from its extension, without
// parameters. It returns "" for unknown extensions.
func MediaTypeFor(path string) string {
	t := mime.TypeByExtension(filepath.Ext(path))
	if t == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(t)
	if err != nil {
		return t
	}
	return mediaType
}
