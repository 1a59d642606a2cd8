package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/grovetools/tabdeck/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromBytesAppliesDefaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`version: "1.0"`), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, DefaultTheme, cfg.Theme)
	assert.Equal(t, DefaultIcons, cfg.Icons)
	assert.Equal(t, DefaultKeyPreset, cfg.Keys.Preset)
	assert.Equal(t, 200*time.Millisecond, cfg.LoadingDuration())
	assert.Equal(t, 5*time.Second, cfg.APITimeout())
	assert.Equal(t, int64(DefaultMaxBytes), cfg.Uploads.MaxBytes)
}

func TestLoadFromBytesEmptyDocument(t *testing.T) {
	cfg, err := LoadFromBytes(nil, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, DefaultVersion, cfg.Version)
}

func TestLoadingDisabled(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("tabs:\n  loading_ms: 0\n"), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.LoadingDuration())
}

func TestLoadFromBytesTOML(t *testing.T) {
	data := []byte(`
version = "1.0"
theme = "gruvbox"

[routes.labels]
"/user" = "People"

[logging]
level = "debug"
`)
	cfg, err := LoadFromBytes(data, FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, "gruvbox", cfg.Theme)
	assert.Equal(t, "People", cfg.Routes.Labels["/user"])

	var logCfg struct {
		Level string `yaml:"level"`
	}
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "debug", logCfg.Level)
}

func TestExtensions(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`
version: "1.0"
logging:
  level: warn
  report_caller: true
`), FormatYAML)
	require.NoError(t, err)
	require.Contains(t, cfg.Extensions, "logging")

	var logCfg struct {
		Level        string `yaml:"level"`
		ReportCaller bool   `yaml:"report_caller"`
	}
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "warn", logCfg.Level)
	assert.True(t, logCfg.ReportCaller)

	// Missing extensions are not an error.
	var other struct{}
	assert.NoError(t, cfg.UnmarshalExtension("missing", &other))
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code errors.ErrorCode
	}{
		{name: "theme outside enum", yaml: "theme: neon", code: errors.ErrCodeConfigValidation},
		{name: "negative timeout", yaml: "api:\n  timeout_ms: -1", code: errors.ErrCodeConfigValidation},
		{name: "unknown nested key", yaml: "tabs:\n  width: 3", code: errors.ErrCodeConfigValidation},
		{name: "relative label path", yaml: "routes:\n  labels:\n    about: About us", code: errors.ErrCodeConfigValidation},
		{name: "empty accept pattern", yaml: "uploads:\n  accept: [\"\"]", code: errors.ErrCodeConfigValidation},
		{name: "broken yaml", yaml: "theme: [", code: errors.ErrCodeConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml), FormatYAML)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TABDECK_TEST_URL", "http://localhost:9999")

	cfg, err := LoadFromBytes([]byte(`
api:
  base_url: ${TABDECK_TEST_URL}
server:
  addr: ${TABDECK_TEST_UNSET:-0.0.0.0:8080}
`), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999", cfg.API.BaseURL)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
}

func TestFindConfigFileWalksUp(t *testing.T) {
	t.Setenv("TABDECK_HOME", t.TempDir())
	root := t.TempDir()
	writeFile(t, root, "tabdeck.yml", "theme: gruvbox\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	path, err := FindConfigFile(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "tabdeck.yml"), path)

	cfg, err := LoadFrom(nested)
	require.NoError(t, err)
	assert.Equal(t, "gruvbox", cfg.Theme)
}

func TestFindConfigFileFallsBackToConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("TABDECK_HOME", home)
	configDir := filepath.Join(home, "config")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	writeFile(t, configDir, "tabdeck.toml", "icons = \"ascii\"\n")

	cfg, path, err := LoadOrDefault(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(configDir, "tabdeck.toml"), path)
	assert.Equal(t, "ascii", cfg.Icons)
}

func TestLoadOrDefaultWithoutFile(t *testing.T) {
	t.Setenv("TABDECK_HOME", t.TempDir())

	cfg, path, err := LoadOrDefault(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), cfg)

	_, err = LoadFrom(t.TempDir())
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestOverrideMerge(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tabdeck.yml", `
theme: gruvbox
routes:
  labels:
    /user: People
    /about: About us
logging:
  level: info
  format:
    preset: json
`)
	writeFile(t, dir, "tabdeck.override.yml", `
server:
  addr: 127.0.0.1:9000
routes:
  labels:
    /about: Credits
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gruvbox", cfg.Theme)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, map[string]string{"/user": "People", "/about": "Credits"}, cfg.Routes.Labels)

	logging := cfg.Extensions["logging"].(map[string]interface{})
	assert.Equal(t, "debug", logging["level"])
	assert.NotNil(t, logging["format"])
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, "Tabdeck Configuration")
	assert.Contains(t, s, `"loading_ms"`)
	assert.Contains(t, s, `"kanagawa"`)
	assert.False(t, strings.Contains(s, "Extensions"))
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tabdeck.yml", "theme: kanagawa\n")

	changes := make(chan *Config, 4)
	w, err := NewWatcher(path, 20*time.Millisecond, nil, func(cfg *Config, err error) {
		if err == nil {
			changes <- cfg
		}
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	// Unrelated files are ignored.
	writeFile(t, dir, "notes.txt", "hello")
	writeFile(t, dir, "tabdeck.yml", "theme: gruvbox\n")

	select {
	case cfg := <-changes:
		assert.Equal(t, "gruvbox", cfg.Theme)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not report the change")
	}
}
