package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/voxelview/vx/internal/core/registry"
)

// NewBrowseCommand creates the browse command.
func NewBrowseCommand(container *Container) *cobra.Command {
	var withBuiltins bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Interactive browser for installed plugin contributions",
		Long: `Browse opens a terminal UI over the contribution registry. Use tab or
left/right to switch between contribution types, up/down to navigate,
and q to quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := container.PopulateRegistry(cmd.Context(), withBuiltins); err != nil {
				return err
			}

			model := newBrowseModel(container.Registry)
			program := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("browse failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withBuiltins, "builtins", true, "Include the viewer's builtin contributions")
	return cmd
}

var browseSections = []string{"Commands", "Readers", "Writers", "Samples", "Widgets"}

// browseModel holds the Bubble Tea state for the contribution browser.
type browseModel struct {
	sections     [][]string // rows per section, indexed like browseSections
	section      int
	selected     int
	windowWidth  int
	windowHeight int
}

// newBrowseModel snapshots the registry into display rows.
func newBrowseModel(reg *registry.Registry) browseModel {
	var commands, readers, writers, samples, widgets []string

	for _, e := range reg.Commands() {
		commands = append(commands, fmt.Sprintf("%-40s %-30s %s", e.Command.ID, e.Command.Title, e.Plugin))
	}
	for _, name := range reg.Plugins() {
		m, _ := reg.Manifest(name)
		for _, r := range m.Contributions.Readers {
			dirs := ""
			if r.AcceptsDirectories {
				dirs = "+dirs"
			}
			readers = append(readers, fmt.Sprintf("%-40s %-5s %s", r.Command, dirs, strings.Join(r.FilenamePatterns, " ")))
		}
		for _, w := range m.Contributions.Writers {
			writers = append(writers, fmt.Sprintf("%-40s %-12s %-25s %s",
				w.Command, w.DisplayName, strings.Join(w.LayerTypes, ","), strings.Join(w.FilenameExtensions, " ")))
		}
	}
	for _, e := range reg.SampleData() {
		samples = append(samples, fmt.Sprintf("%-20s %-30s %s", e.Sample.Key, e.Sample.DisplayName, e.Sample.Command))
	}
	for _, e := range reg.Widgets() {
		widgets = append(widgets, fmt.Sprintf("%-30s %s", e.Widget.DisplayName, e.Widget.Command))
	}

	return browseModel{
		sections: [][]string{commands, readers, writers, samples, widgets},
	}
}

// Init implements the Bubble Tea init method
func (m browseModel) Init() tea.Cmd {
	return nil
}

// Update implements the Bubble Tea update method
func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "tab", "right", "l":
			m.section = (m.section + 1) % len(browseSections)
			m.selected = 0

		case "shift+tab", "left", "h":
			m.section = (m.section + len(browseSections) - 1) % len(browseSections)
			m.selected = 0

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < len(m.sections[m.section])-1 {
				m.selected++
			}
		}
	}

	return m, nil
}

// View implements the Bubble Tea view method
func (m browseModel) View() string {
	header := m.renderTabs()
	body := m.renderRows()
	footer := dimStyle.Render("Controls: [Tab/←→] Section | [↑↓] Navigate | [q] Quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m browseModel) renderTabs() string {
	tabs := make([]string, len(browseSections))
	for i, name := range browseSections {
		label := fmt.Sprintf(" %s (%d) ", name, len(m.sections[i]))
		if i == m.section {
			tabs[i] = headerStyle.Render(label)
		} else {
			tabs[i] = dimStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, tabs...)
}

func (m browseModel) renderRows() string {
	rows := m.sections[m.section]
	if len(rows) == 0 {
		return dimStyle.Render("\n  No contributions of this type.\n")
	}

	maxRows := m.windowHeight - 4
	if maxRows < 1 {
		maxRows = len(rows)
	}
	start := 0
	if m.selected >= maxRows {
		start = m.selected - maxRows + 1
	}

	var b strings.Builder
	for i := start; i < len(rows) && i < start+maxRows; i++ {
		style := lipgloss.NewStyle()
		if i == m.selected {
			style = style.Background(lipgloss.Color("240"))
		}
		b.WriteString(style.Render(rows[i]))
		b.WriteByte('\n')
	}
	return b.String()
}
