package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DrDeath22/packdex/pkg/recipe"
	"github.com/DrDeath22/packdex/pkg/store"
)

// loadCommand creates the "load" command, which imports recipe files
// into the record store.
func (c *CLI) loadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load <dir>",
		Short: "Load recipe files into the record store",
		Long: `Load all TOML recipe files from a directory into the record store.

Records already stored under the same name and version are skipped;
stored records are immutable. With PACKDEX_MONGO_URI set, records are
written to the MongoDB store and persist across runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := c.openStore(ctx, "")
			if err != nil {
				return err
			}
			defer func() { _ = s.Close(ctx) }()

			records, err := recipe.LoadDir(args[0])
			if err != nil {
				return err
			}
			if len(records) == 0 {
				printInfo("No recipe files found in %s", args[0])
				return nil
			}

			sp := newSpinnerWithContext(ctx, fmt.Sprintf("Loading %d recipes", len(records)))
			sp.Start()

			loaded, skipped := 0, 0
			for _, rec := range records {
				switch err := s.Put(ctx, rec); {
				case err == nil:
					loaded++
				case errors.Is(err, store.ErrDuplicateRecord):
					c.Logger.Debugf("Skipping %s: already stored", rec.Ref())
					skipped++
				default:
					sp.StopWithError(fmt.Sprintf("Failed to store %s", rec.Ref()))
					return err
				}
			}

			sp.StopWithSuccess(fmt.Sprintf("Loaded %d records (%d already present)", loaded, skipped))
			printDetail("Source: %s", args[0])
			return nil
		},
	}
}
