package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DrDeath22/packdex/pkg/recipe"
	"github.com/DrDeath22/packdex/pkg/resolver"
)

// showCommand creates the "show" command, which prints one stored record.
func (c *CLI) showCommand() *cobra.Command {
	var recipesDir string

	cmd := &cobra.Command{
		Use:   "show <name>[/version]",
		Short: "Show a stored record",
		Long: `Show the metadata of one stored record.

Without a version, the highest stored version of the name is shown.

Examples:
  packdex show zlib
  packdex show boost/1.84.0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := c.openStore(ctx, recipesDir)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close(ctx) }()

			name, version := splitRef(args[0])

			var rec *recipe.Record
			if version == "" {
				rec, err = resolver.New(s).Latest(ctx, name)
			} else {
				rec, err = s.Get(ctx, name, version)
			}
			if err != nil {
				return err
			}

			printRecord(rec)

			versions, err := s.ListByName(ctx, name)
			if err != nil {
				return err
			}
			if len(versions) > 1 {
				all := make([]string, len(versions))
				for i, v := range versions {
					all[i] = v.Version
				}
				fmt.Println()
				printDetail("All versions: %s", strings.Join(all, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&recipesDir, "recipes", "r", ".", "directory of recipe files")

	return cmd
}

// printRecord prints a record's metadata as labeled lines.
func printRecord(rec *recipe.Record) {
	fmt.Println(StyleTitle.Render(rec.Ref()))
	fmt.Println()
	printKeyValue("Name", rec.Name)
	printKeyValue("Version", rec.Version)
	if rec.Description != "" {
		printKeyValue("Description", rec.Description)
	}
	if rec.License != "" {
		printKeyValue("License", rec.License)
	}
	if rec.URL != "" {
		printKeyValue("URL", rec.URL)
	}
	if len(rec.Topics) > 0 {
		printKeyValue("Topics", strings.Join(rec.Topics, ", "))
	}
	if len(rec.Libs) > 0 {
		printKeyValue("Libraries", strings.Join(rec.Libs, ", "))
	}
	if len(rec.Requirements) > 0 {
		refs := make([]string, len(rec.Requirements))
		for i, q := range rec.Requirements {
			refs[i] = q.String()
		}
		printKeyValue("Requires", strings.Join(refs, ", "))
	}
}
