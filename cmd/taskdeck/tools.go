package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/taskdeck/taskdeck/internal/dispatch"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Print the tool catalogue",
	Long: `Lists every tool Taskdeck exposes, with its actions and accepted fields.
Markdown is rendered when stdout is a terminal; pipe the output or pass
--json for machine-readable schemas.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		defs := dispatch.NewCatalog().List()

		if asJSON {
			type toolView struct {
				Name        string         `json:"name"`
				Description string         `json:"description"`
				InputSchema map[string]any `json:"input_schema"`
			}
			out := make([]toolView, 0, len(defs))
			for _, def := range defs {
				out = append(out, toolView{def.Name, def.Description, def.InputSchema()})
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		markdown := catalogMarkdown(defs)

		if term.IsTerminal(int(os.Stdout.Fd())) {
			printTitle()
			r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
			if err == nil {
				if rendered, rerr := r.Render(markdown); rerr == nil {
					fmt.Print(rendered)
					return nil
				}
			}
		}
		fmt.Print(markdown)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.Flags().Bool("json", false, "Emit JSON input schemas instead of markdown")
}

func printTitle() {
	p := termenv.ColorProfile()
	title := termenv.String(" Taskdeck tools ").Foreground(p.Color("#818cf8")).Bold()
	fmt.Println()
	fmt.Println(title)
}

func catalogMarkdown(defs []dispatch.ToolDefinition) string {
	var b strings.Builder
	for _, def := range defs {
		fmt.Fprintf(&b, "# %s\n\n%s\n\n", def.Name, def.Description)
		fmt.Fprintf(&b, "**Actions:** %s\n\n", strings.Join(def.Actions.Members(), ", "))

		names := make([]string, 0, len(def.Fields))
		for name := range def.Fields {
			names = append(names, name)
		}
		// Schema maps are unordered; keep the listing deterministic.
		sort.Strings(names)

		b.WriteString("| Field | Type |\n|---|---|\n")
		for _, name := range names {
			fmt.Fprintf(&b, "| %s | %s |\n", name, def.Fields[name].Name())
		}
		b.WriteString("\n")
	}
	return b.String()
}
