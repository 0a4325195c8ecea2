package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/backloop/internal/config"
	"github.com/example/backloop/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the backloop database and config",
		Long: `Initialize the database at ~/.backloop/backloop.db (or $BACKLOOP_DB),
load the demo order catalog, and write .backloop/config.yaml with the
default settings in the current directory.

The demo catalog's return windows have closed; pass --deadline-days to
move them forward so items can be reported faulty.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			deadlineDays, _ := cmd.Flags().GetInt("deadline-days")
			out := cmd.OutOrStdout()

			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}
			fmt.Fprintf(out, "Initializing backloop database at %s\n", dbPath)

			database, err := db.GetDB()
			if err != nil {
				return err
			}
			if err := db.SeedFixtures(database); err != nil {
				return fmt.Errorf("failed to load demo catalog: %w", err)
			}
			fmt.Fprintln(out, "✓ Database initialized")

			if cmd.Flags().Changed("deadline-days") {
				if deadlineDays < 0 {
					return fmt.Errorf("--deadline-days must not be negative")
				}
				deadline := time.Now().AddDate(0, 0, deadlineDays)
				n, err := db.SetReturnDeadline(database, deadline)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Return window of %d items open until %s\n", n, deadline.UTC().Format("2006-01-02"))
			}

			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			path := config.Path(dir)
			if _, err := os.Stat(path); err == nil && !force {
				fmt.Fprintf(out, "✓ Keeping existing config at %s\n", path)
			} else {
				if err := config.SaveConfig(dir, config.Default()); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Config written to %s\n", path)
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  backloop orders")
			fmt.Fprintln(out, "  backloop recycle 1 --photo bottle.webp --condition good")
			fmt.Fprintln(out, "  backloop report 1 --accept-instructions --problem damaged --resolution refund")

			return nil
		},
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing config with the defaults")
	cmd.Flags().Int("deadline-days", 0, "Reopen the demo return windows for this many days from today")
	return cmd
}
