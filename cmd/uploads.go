package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/grovetools/tabdeck/cli"
	"github.com/grovetools/tabdeck/errors"
	"github.com/grovetools/tabdeck/tui/components"
	"github.com/grovetools/tabdeck/tui/components/table"
	"github.com/grovetools/tabdeck/uploads"
	"github.com/spf13/cobra"
)

// NewUploadsCmd creates the `uploads` command group.
func NewUploadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uploads",
		Short: "Inspect the upload page's files and limits",
	}
	cmd.AddCommand(newUploadsListCmd())
	cmd.AddCommand(newUploadsCheckCmd())
	return cmd
}

func newUploadsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the seeded uploads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := uploadManager(cmd)
			if err != nil {
				return err
			}
			files := mgr.List()

			out := cmd.OutOrStdout()
			if cli.GetOptions(cmd).JSONOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(files)
			}

			stats := mgr.Stats()
			fmt.Fprintln(out, components.RenderStats([][2]string{
				{"Files", fmt.Sprint(stats.Total)},
				{"Done", fmt.Sprint(stats.Done)},
				{"Uploading", fmt.Sprint(stats.Uploading)},
				{"Size", uploads.FormatSize(stats.TotalSize)},
			}))
			rows := make([][]string, 0, len(files))
			for _, f := range files {
				rows = append(rows, []string{f.ID, f.Name, uploads.FormatSize(f.Size), f.Type, string(f.Status), f.UploadedAt})
			}
			fmt.Fprintln(out, table.SimpleTable([]string{"ID", "NAME", "SIZE", "TYPE", "STATUS", "UPLOADED"}, rows))
			return nil
		},
	}
}

func newUploadsCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <name> <size>",
		Short: "Check whether the upload page would accept a file",
		Long: `Applies uploads.accept and uploads.max_bytes to a file name and a size
in bytes. Exits non-zero when the file would be refused.

Examples:
  tabdeck uploads check notes.txt 2048`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil || size < 0 {
				return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("invalid size %q", args[1]))
			}
			mgr, err := uploadManager(cmd)
			if err != nil {
				return err
			}
			if err := mgr.Check(args[0], size); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) would be accepted\n", args[0], uploads.FormatSize(size))
			return nil
		},
	}
}

func uploadManager(cmd *cobra.Command) (*uploads.Manager, error) {
	cfg, _, err := cli.LoadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return uploads.New(cfg.Uploads.Accept, uploads.WithMaxBytes(cfg.Uploads.MaxBytes))
}
