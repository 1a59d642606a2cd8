package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/tabdeck/cli"
	"github.com/grovetools/tabdeck/tui/components"
	"github.com/grovetools/tabdeck/tui/components/table"
	"github.com/grovetools/tabdeck/users"
	"github.com/spf13/cobra"
)

// NewUsersCmd creates the `users` command.
func NewUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List the mock user directory",
		Long: `Lists the users the Users page starts with.

Examples:
  # Everyone in the directory
  tabdeck users

  # Pending admins, as JSON
  tabdeck users --role admin --status pending --json`,
		Args: cobra.NoArgs,
		RunE: runUsers,
	}
	cmd.Flags().StringP("search", "s", "", "Match name or email")
	cmd.Flags().String("role", "all", "Filter by role (admin, manager, user)")
	cmd.Flags().String("status", "all", "Filter by status (active, inactive, pending)")
	return cmd
}

func runUsers(cmd *cobra.Command, args []string) error {
	search, _ := cmd.Flags().GetString("search")
	role, _ := cmd.Flags().GetString("role")
	status, _ := cmd.Flags().GetString("status")

	dir := users.New()
	list := dir.List(users.Filter{Search: search, Role: role, Status: status})

	out := cmd.OutOrStdout()
	if cli.GetOptions(cmd).JSONOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	stats := dir.Stats()
	fmt.Fprintln(out, components.RenderStats([][2]string{
		{"Total", fmt.Sprint(stats.Total)},
		{"Active", fmt.Sprint(stats.Active)},
		{"Admins", fmt.Sprint(stats.Admins)},
		{"Pending", fmt.Sprint(stats.Pending)},
	}))

	if len(list) == 0 {
		fmt.Fprintln(out, "No users match.")
		return nil
	}
	rows := make([][]string, 0, len(list))
	for _, u := range list {
		rows = append(rows, []string{u.ID, u.Name, u.Email, string(u.Role), string(u.Status), u.Department})
	}
	fmt.Fprintln(out, table.SimpleTable([]string{"ID", "NAME", "EMAIL", "ROLE", "STATUS", "DEPARTMENT"}, rows))
	return nil
}
