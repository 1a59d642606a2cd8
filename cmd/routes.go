package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grovetools/tabdeck/cli"
	"github.com/grovetools/tabdeck/routes"
	"github.com/grovetools/tabdeck/tui/components/table"
	"github.com/spf13/cobra"
)

// NewRoutesCmd creates the `routes` command.
func NewRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the route table",
		Long: `Lists every page the shell knows, with the label its tab shows and
whether it appears in the sidebar menu. Labels follow routes.labels.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			t := routes.DefaultTable().WithLabels(cfg.Routes.Labels)

			out := cmd.OutOrStdout()
			if cli.GetOptions(cmd).JSONOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(t.Routes())
			}

			rows := make([][]string, 0, len(t.Routes()))
			for _, r := range t.Routes() {
				var flags []string
				if r.Menu {
					flags = append(flags, "menu")
				}
				if r.Public {
					flags = append(flags, "public")
				}
				rows = append(rows, []string{r.Path, r.Label, r.Icon, strings.Join(flags, ",")})
			}
			fmt.Fprintln(out, table.SimpleTable([]string{"PATH", "LABEL", "ICON", "FLAGS"}, rows))
			return nil
		},
	}
}
