package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/tabdeck/cli"
	"github.com/grovetools/tabdeck/errors"
	"github.com/grovetools/tabdeck/logging"
	"github.com/grovetools/tabdeck/tui/theme"
	"github.com/hpcloud/tail"
	"github.com/spf13/cobra"
)

const dayLayout = "2006-01-02"

// NewLogsCmd creates the `logs` command.
func NewLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs [component]",
		Short: "Show a component's log file",
		Long: `Prints the log file a component writes under the state directory.
The component defaults to serve; the shell logs as "shell".

Examples:
  # Follow the session API
  tabdeck logs -f

  # Last 50 lines the shell wrote yesterday
  tabdeck logs shell --tail 50 --date 2024-03-14`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLogs,
	}
	cmd.Flags().BoolP("follow", "f", false, "Follow log output")
	cmd.Flags().Int("tail", -1, "Number of lines to show from the end of the log (default: all)")
	cmd.Flags().String("date", "", "Day of the log file (YYYY-MM-DD, default today)")
	return cmd
}

func runLogs(cmd *cobra.Command, args []string) error {
	component := "serve"
	if len(args) == 1 {
		component = args[0]
	}
	follow, _ := cmd.Flags().GetBool("follow")
	tailLines, _ := cmd.Flags().GetInt("tail")
	dateStr, _ := cmd.Flags().GetString("date")

	day := time.Now()
	if dateStr != "" {
		d, err := time.Parse(dayLayout, dateStr)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("invalid date %q, want YYYY-MM-DD", dateStr))
		}
		day = d
	}

	path := logging.DefaultLogFile(component, day)
	if path == "" {
		return errors.New(errors.ErrCodeInternal, "no state directory for log files")
	}
	if _, err := os.Stat(path); err != nil && !follow {
		return errors.NotFound("log file", path)
	}

	offset, err := lastLinesOffset(path, tailLines)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to read log file").WithDetail("path", path)
	}

	t, err := tail.TailFile(path, tail.Config{
		Follow:    follow,
		ReOpen:    follow,
		MustExist: !follow,
		Location:  &tail.SeekInfo{Offset: offset, Whence: io.SeekStart},
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to tail log file").WithDetail("path", path)
	}
	defer t.Cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	jsonOutput := cli.GetOptions(cmd).JSONOutput
	for {
		select {
		case <-ctx.Done():
			return t.Stop()
		case line, ok := <-t.Lines:
			if !ok {
				return nil
			}
			if line.Err != nil {
				return line.Err
			}
			if line.Text == "" {
				continue
			}
			if jsonOutput {
				printLogJSON(out, component, line.Text)
			} else {
				printLogText(out, line.Text)
			}
		}
	}
}

// lastLinesOffset returns the byte offset of the last n lines of path, or 0
// when n is negative or the file is shorter.
func lastLinesOffset(path string, n int) (int64, error) {
	if n < 0 {
		return 0, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var starts []int64
	var pos int64
	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			starts = append(starts, pos)
			pos += int64(len(line))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
	}
	if n == 0 {
		return pos, nil
	}
	if n >= len(starts) {
		return 0, nil
	}
	return starts[len(starts)-n], nil
}

// printLogJSON passes JSON lines through and wraps text lines.
func printLogJSON(w io.Writer, component, line string) {
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		entry = map[string]interface{}{
			"component": component,
			"raw_line":  line,
		}
	}
	data, _ := json.Marshal(entry)
	fmt.Fprintln(w, string(data))
}

// printLogText pretty-prints JSON entries. Lines written by the text
// formatter are already readable and print as they are.
func printLogText(w io.Writer, line string) {
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		fmt.Fprintln(w, line)
		return
	}

	ts, _ := entry["time"].(string)
	level, _ := entry["level"].(string)
	msg, _ := entry["msg"].(string)
	component, _ := entry["component"].(string)

	timeStr := ts
	if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		timeStr = parsed.Format("15:04:05")
	}

	t := theme.DefaultTheme
	var levelStyle lipgloss.Style
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		levelStyle = t.Error
	case "warning":
		levelStyle = t.Warning
	case "info":
		levelStyle = t.Info
	default:
		levelStyle = t.Muted
	}

	var keys []string
	for k := range entry {
		switch k {
		case "time", "level", "msg", "component":
		default:
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, fmt.Sprintf("%s=%v", t.Muted.Render(k), entry[k]))
	}

	fmt.Fprintf(w, "%s %s [%s] %s %s\n",
		timeStr,
		levelStyle.Render(strings.ToUpper(level)),
		t.Accent.Render(component),
		msg,
		strings.Join(fields, " "),
	)
}
