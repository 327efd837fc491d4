package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// NewListCommand creates the list command.
func NewListCommand(container *Container) *cobra.Command {
	var withBuiltins bool

	cmd := &cobra.Command{
		Use:       "list [commands|readers|writers|samples|widgets|menus]",
		Short:     "List contributions across installed plugins",
		ValidArgs: []string{"commands", "readers", "writers", "samples", "widgets", "menus"},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		Long: `List aggregates the contributions of every discovered plugin manifest,
including the viewer's builtins unless --builtins=false is given.

Examples:
  vx list                # overview per plugin
  vx list readers        # all reader contributions
  vx list samples        # the sample data catalog`,
		RunE: func(cmd *cobra.Command, args []string) error {
			problems, err := container.PopulateRegistry(cmd.Context(), withBuiltins)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range problems {
				fmt.Fprintf(out, "⚠️  skipped %s: %v\n", p.Path, p.Err)
			}

			kind := "overview"
			if len(args) == 1 {
				kind = args[0]
			}

			reg := container.Registry
			switch kind {
			case "overview":
				for _, name := range reg.Plugins() {
					m, _ := reg.Manifest(name)
					c := m.Contributions
					fmt.Fprintf(out, "%s %s\n", headerStyle.Render(name), dimStyle.Render(m.DisplayName))
					fmt.Fprintf(out, "   %d commands, %d readers, %d writers, %d samples, %d widgets\n",
						len(c.Commands), len(c.Readers), len(c.Writers), len(c.SampleData), len(c.Widgets))
				}
			case "commands":
				fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-40s %-30s %s", "ID", "TITLE", "PLUGIN")))
				for _, e := range reg.Commands() {
					fmt.Fprintf(out, "%-40s %-30s %s\n", e.Command.ID, e.Command.Title, e.Plugin)
				}
			case "readers":
				fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-40s %-5s %s", "COMMAND", "DIRS", "PATTERNS")))
				for _, name := range reg.Plugins() {
					m, _ := reg.Manifest(name)
					for _, r := range m.Contributions.Readers {
						dirs := ""
						if r.AcceptsDirectories {
							dirs = "yes"
						}
						fmt.Fprintf(out, "%-40s %-5s %s\n", r.Command, dirs, strings.Join(r.FilenamePatterns, " "))
					}
				}
			case "writers":
				fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-40s %-12s %-25s %s", "COMMAND", "NAME", "LAYERS", "EXTENSIONS")))
				for _, name := range reg.Plugins() {
					m, _ := reg.Manifest(name)
					for _, w := range m.Contributions.Writers {
						fmt.Fprintf(out, "%-40s %-12s %-25s %s\n",
							w.Command, w.DisplayName,
							strings.Join(w.LayerTypes, ","), strings.Join(w.FilenameExtensions, " "))
					}
				}
			case "samples":
				fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-20s %-30s %s", "KEY", "DISPLAY NAME", "COMMAND")))
				for _, e := range reg.SampleData() {
					fmt.Fprintf(out, "%-20s %-30s %s\n", e.Sample.Key, e.Sample.DisplayName, e.Sample.Command)
				}
			case "widgets":
				fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-30s %s", "DISPLAY NAME", "COMMAND")))
				for _, e := range reg.Widgets() {
					fmt.Fprintf(out, "%-30s %s\n", e.Widget.DisplayName, e.Widget.Command)
				}
			case "menus":
				byMenu := reg.MenuItems()
				keys := make([]string, 0, len(byMenu))
				for k := range byMenu {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, menu := range keys {
					fmt.Fprintln(out, headerStyle.Render(menu))
					for _, e := range byMenu[menu] {
						fmt.Fprintf(out, "   %s", e.Item.Command)
						if e.Item.When != "" {
							fmt.Fprintf(out, "  %s", dimStyle.Render("when: "+e.Item.When))
						}
						fmt.Fprintln(out)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withBuiltins, "builtins", true, "Include the viewer's builtin contributions")
	return cmd
}
