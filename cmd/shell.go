package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/tabdeck/cli"
	"github.com/grovetools/tabdeck/config"
	"github.com/grovetools/tabdeck/logging"
	"github.com/grovetools/tabdeck/tui"
	"github.com/grovetools/tabdeck/tui/shell"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewShellCmd creates the `shell` command.
func NewShellCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Open the tabbed terminal shell",
		Long: `Opens the tabdeck shell: a sidebar menu, a tab bar that tracks every page
you visit, and the home, users, upload, about and profile pages.

Examples:
  # Sign in on the login page
  tabdeck shell

  # Skip the login page
  tabdeck shell --as admin`,
		Args: cobra.NoArgs,
		RunE: runShell,
	}
	cmd.Flags().String("as", "", "Sign in as this user before the shell opens")
	cmd.Flags().Bool("no-watch", false, "Do not reload the configuration when it changes")
	return cmd
}

func runShell(cmd *cobra.Command, args []string) error {
	cfg, cfgPath, err := cli.LoadConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.NewTUILogger("shell", cfg)
	if cli.GetOptions(cmd).Verbose {
		logger.Logger.SetLevel(logrus.DebugLevel)
	}

	tui.InitializeTUI()
	a, err := newApp(cfg, logger, appOptions{guarded: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if as, _ := cmd.Flags().GetString("as"); as != "" {
		if _, err := a.session.Login(as, "-"); err != nil {
			return err
		}
		a.router.Refresh()
	}

	model := shell.New(shell.Deps{
		Store:   a.store,
		Router:  a.router,
		Session: a.session,
		Users:   a.users,
		Uploads: a.uploads,
		Posts:   a.posts,
		Keys:    a.keys,
		Logger:  logger,
	})
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen())

	noWatch, _ := cmd.Flags().GetBool("no-watch")
	if cfgPath != "" && !noWatch {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		watcher, err := config.NewWatcher(cfgPath, config.DefaultDebounce, logger, func(c *config.Config, err error) {
			program.Send(shell.ReloadMsg{Config: c, Err: err})
		})
		if err != nil {
			logger.WithError(err).Warn("Config watcher disabled")
		} else {
			defer watcher.Close()
			go watcher.Start(ctx)
		}
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("shell exited: %w", err)
	}
	return nil
}
