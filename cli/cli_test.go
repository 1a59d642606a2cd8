package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grovetools/tabdeck/errors"
	"github.com/grovetools/tabdeck/version"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardFlags(t *testing.T) {
	cmd := NewStandardCommand("tabdeck", "Tab shell")
	require.NoError(t, cmd.ParseFlags([]string{"-v", "--json", "-c", "x.yml"}))

	opts := GetOptions(cmd)
	assert.True(t, opts.Verbose)
	assert.True(t, opts.JSONOutput)
	assert.Equal(t, "x.yml", opts.ConfigFile)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tabdeck.yml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"1.0\"\ntheme: gruvbox\n"), 0o644))

	cmd := NewStandardCommand("tabdeck", "")
	require.NoError(t, cmd.ParseFlags([]string{"--config", path}))
	cfg, got, err := LoadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, "gruvbox", cfg.Theme)

	cmd = NewStandardCommand("tabdeck", "")
	require.NoError(t, cmd.ParseFlags([]string{"--config", filepath.Join(dir, "missing.yml")}))
	_, _, err = LoadConfig(cmd)
	assert.Error(t, err)
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config not found", errors.ConfigNotFound("/tmp"), "No tabdeck.yml found"},
		{"not found", errors.NotFound("user", "42"), "No user with id '42'"},
		{"input", errors.MissingFields("user", "name"), "required fields missing: name"},
		{"upstream", errors.Upstream("http://x", 502, nil), "api.base_url"},
		{"wrapped", fmt.Errorf("outer: %w", errors.TooLarge("a.iso", 20, 10)), "exceeds the 10 byte limit"},
		{"plain", fmt.Errorf("boom"), "Error: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &ErrorHandler{Out: &buf}
			assert.Equal(t, tt.err, h.Handle(tt.err))
			assert.Contains(t, buf.String(), tt.want)
		})
	}

	var buf bytes.Buffer
	h := &ErrorHandler{Verbose: true, Out: &buf}
	h.Handle(errors.NotFound("file", "9"))
	assert.Contains(t, buf.String(), `"code": "NOT_FOUND"`)
	assert.Nil(t, h.Handle(nil))
}

func TestRenderHelp(t *testing.T) {
	root := NewStandardCommand("tabdeck", "Tab shell")
	root.Long = "Runs the shell.\n\nExamples:\n# start\ntabdeck shell"
	sub := &cobra.Command{Use: "shell", Short: "Open the shell", Run: func(*cobra.Command, []string) {}}
	root.AddCommand(sub)

	var buf bytes.Buffer
	renderHelp(&buf, root, 60)
	out := buf.String()
	assert.Contains(t, out, "TABDECK")
	assert.Contains(t, out, "COMMANDS")
	assert.Contains(t, out, "shell")
	assert.Contains(t, out, "--verbose")
	assert.Contains(t, out, "EXAMPLES")
	assert.Contains(t, out, "# start")
}

func TestWrapText(t *testing.T) {
	out := wrapText("one two three four five", 9)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(line), 9)
	}
	assert.Equal(t, "a\nb", wrapText("a\nb", 9))
}

func TestVersionCommand(t *testing.T) {
	info := version.GetInfo()
	root := NewStandardCommand("tabdeck", "")
	root.AddCommand(NewVersionCommand("tabdeck", info))

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"version", "--json"})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), `"version": "`+info.Version+`"`)
}
