package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// listCommand creates the "list" command, which prints all stored records
// as a table, one row per package name.
func (c *CLI) listCommand() *cobra.Command {
	var recipesDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all stored records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := c.openStore(ctx, recipesDir)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close(ctx) }()

			names, err := s.Names(ctx)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No records stored")
				return nil
			}

			rows := [][]string{}
			for _, name := range names {
				records, err := s.ListByName(ctx, name)
				if err != nil {
					return err
				}
				latest := records[len(records)-1]

				versions := make([]string, len(records))
				for i, rec := range records {
					versions[i] = rec.Version
				}

				libs := "—"
				if len(latest.Libs) > 0 {
					libs = strings.Join(latest.Libs, ", ")
				}
				license := "—"
				if latest.License != "" {
					license = latest.License
				}

				rows = append(rows, []string{name, strings.Join(versions, ", "), license, libs})
			}

			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("Package", "Versions", "License", "Libraries").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return headerStyle
					}
					if col == 0 {
						return lipgloss.NewStyle().Foreground(colorCyan)
					}
					return lipgloss.NewStyle().Foreground(colorWhite)
				})

			fmt.Println(t.Render())
			printDetail("%d packages", len(names))
			return nil
		},
	}

	cmd.Flags().StringVarP(&recipesDir, "recipes", "r", ".", "directory of recipe files")

	return cmd
}
