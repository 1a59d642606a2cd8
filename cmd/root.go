package cmd

import (
	"github.com/grovetools/tabdeck/cli"
	"github.com/grovetools/tabdeck/version"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the tabdeck command tree.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand("tabdeck", "A tabbed admin shell for the terminal")
	root.Long = `tabdeck opens every page you visit as a tab. Run "tabdeck shell" for the
terminal shell or "tabdeck serve" to drive a tab session over HTTP.`

	cli.SetVersionTemplate(root, version.GetInfo())

	root.AddCommand(NewShellCmd())
	root.AddCommand(NewServeCmd())
	root.AddCommand(NewRoutesCmd())
	root.AddCommand(NewUsersCmd())
	root.AddCommand(NewUploadsCmd())
	root.AddCommand(NewConfigCmd())
	root.AddCommand(NewLogsCmd())
	root.AddCommand(cli.NewVersionCommand("tabdeck", version.GetInfo()))
	return root
}
