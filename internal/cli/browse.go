package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/DrDeath22/packdex/pkg/recipe"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the "browse" command, an interactive view of the
// stored records. Selecting a package prints the detail of its highest
// stored version.
func (c *CLI) browseCommand() *cobra.Command {
	var recipesDir string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse stored records interactively",
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

			rows := make([]packageRow, 0, len(names))
			for _, name := range names {
				records, err := s.ListByName(ctx, name)
				if err != nil {
					return err
				}
				rows = append(rows, packageRow{name: name, records: records})
			}

			prog := tea.NewProgram(newPackageListModel(rows), tea.WithContext(ctx))
			final, err := prog.Run()
			if err != nil {
				return err
			}

			if m, ok := final.(packageListModel); ok && m.selected != nil {
				fmt.Println()
				printRecord(m.selected)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&recipesDir, "recipes", "r", ".", "directory of recipe files")

	return cmd
}

// packageRow groups all stored versions of one package name.
type packageRow struct {
	name    string
	records []*recipe.Record // ordered oldest to newest
}

// latest returns the highest stored version of the row's package.
func (r packageRow) latest() *recipe.Record {
	return r.records[len(r.records)-1]
}

// packageListModel is the bubbletea model for interactive package browsing.
type packageListModel struct {
	rows     []packageRow
	cursor   int
	height   int
	offset   int
	selected *recipe.Record
}

// newPackageListModel creates a new package list model.
func newPackageListModel(rows []packageRow) packageListModel {
	return packageListModel{
		rows:   rows,
		height: 15,
	}
}

func (m packageListModel) Init() tea.Cmd {
	return nil
}

func (m packageListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			m.selected = m.rows[m.cursor].latest()
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m packageListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Stored Packages"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ show  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		latest := r.latest()

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		license := "—"
		if latest.License != "" {
			license = latest.License
		}

		libs := "—"
		if len(latest.Libs) > 0 {
			libs = strings.Join(latest.Libs, ", ")
		}

		rows = append(rows, []string{cursor, r.name, latest.Version, fmt.Sprintf("%d", len(r.records)), license, libs})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Package", "Latest", "Versions", "License", "Libraries").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.offset + row
			if actualIdx >= len(m.rows) {
				return lipgloss.NewStyle()
			}

			base := lipgloss.NewStyle()
			if col >= 3 {
				base = base.Foreground(colorDim)
			} else {
				base = base.Foreground(colorWhite)
			}
			if actualIdx == m.cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows))))

	return b.String()
}
