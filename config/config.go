package config

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grovetools/tabdeck/errors"
	"github.com/grovetools/tabdeck/pkg/paths"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// Format is the on-disk encoding of a configuration file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// configNames lists the file names searched for, in precedence order.
var configNames = []string{
	"tabdeck.yml",
	"tabdeck.yaml",
	".tabdeck.yml",
	".tabdeck.yaml",
	"tabdeck.toml",
}

// overrideNames are merged on top of the main file when they sit next to it.
var overrideNames = []string{
	"tabdeck.override.yml",
	"tabdeck.override.yaml",
	"tabdeck.override.toml",
}

// FormatOf infers the format from a file name.
func FormatOf(path string) Format {
	if strings.HasSuffix(path, ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Load reads, merges overrides into, validates and defaults a configuration
// file.
func Load(path string) (*Config, error) {
	return LoadWithLogger(path, discardLogger())
}

// LoadWithLogger is Load with debug output about the files involved.
func LoadWithLogger(path string, logger *logrus.Logger) (*Config, error) {
	logger.WithField("path", path).Debug("Loading configuration")
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	for _, name := range overrideNames {
		overridePath := filepath.Join(dir, name)
		if _, err := os.Stat(overridePath); err != nil {
			continue
		}
		logger.WithField("path", overridePath).Debug("Merging override configuration")
		override, err := readFile(overridePath)
		if err != nil {
			logger.WithError(err).Warn("Failed to read override file, skipping")
			continue
		}
		cfg = mergeConfigs(cfg, override)
	}

	return finish(cfg)
}

// LoadFromBytes parses, validates and defaults configuration data.
func LoadFromBytes(data []byte, format Format) (*Config, error) {
	cfg, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	return finish(cfg)
}

// LoadFrom finds the configuration for startDir and loads it.
func LoadFrom(startDir string) (*Config, error) {
	path, err := FindConfigFile(startDir)
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// LoadDefault loads the configuration for the current directory.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}
	return LoadFrom(cwd)
}

// LoadOrDefault is LoadFrom, except that a missing file yields defaults.
// Invalid files are still reported.
func LoadOrDefault(startDir string) (*Config, string, error) {
	path, err := FindConfigFile(startDir)
	if err != nil {
		if errors.Is(err, errors.ErrCodeConfigNotFound) {
			return Default(), "", nil
		}
		return nil, "", err
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// FindConfigFile searches from startDir up to the filesystem root, then the
// XDG config directory.
func FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if configDir := paths.ConfigDir(); configDir != "" {
		for _, name := range configNames {
			path := filepath.Join(configDir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}
	}

	return "", errors.ConfigNotFound(filepath.Join(startDir, configNames[0]))
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}
	cfg, err := decode(data, FormatOf(path))
	if err != nil {
		if te, ok := errors.As(err); ok {
			te.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte, format Format) (*Config, error) {
	expanded := []byte(expandEnvVars(string(data)))

	var cfg Config
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(expanded, &cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
		}
		var raw map[string]interface{}
		if err := toml.Unmarshal(expanded, &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
		}
		for key, value := range raw {
			if knownKeys[key] {
				continue
			}
			if cfg.Extensions == nil {
				cfg.Extensions = make(map[string]interface{})
			}
			cfg.Extensions[key] = value
		}
	default:
		if len(bytes.TrimSpace(expanded)) == 0 {
			return &cfg, nil
		}
		if err := yaml.Unmarshal(expanded, &cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
		}
	}
	return &cfg, nil
}

// knownKeys are the top-level keys with a typed field.
var knownKeys = map[string]bool{
	"version": true, "theme": true, "icons": true, "keys": true, "routes": true,
	"tabs": true, "api": true, "server": true, "uploads": true, "users": true,
}

func finish(cfg *Config) (*Config, error) {
	cfg.SetDefaults()

	validator, err := NewValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to create validator")
	}
	if err := validator.Validate(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigValidation, "schema validation failed")
	}
	if err := cfg.ValidateSemantics(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateSemantics checks rules the schema cannot express.
func (c *Config) ValidateSemantics() error {
	for path := range c.Routes.Labels {
		if !strings.HasPrefix(path, "/") {
			return errors.New(errors.ErrCodeConfigValidation, "route label keys must be absolute paths").
				WithDetail("path", path)
		}
	}
	for _, pattern := range c.Uploads.Accept {
		if strings.TrimSpace(pattern) == "" {
			return errors.New(errors.ErrCodeConfigValidation, "uploads.accept contains an empty pattern")
		}
	}
	return nil
}

// mergeConfigs merges override configuration into base
func mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.Version != "" {
		result.Version = override.Version
	}
	if override.Theme != "" {
		result.Theme = override.Theme
	}
	if override.Icons != "" {
		result.Icons = override.Icons
	}
	if override.Keys.Preset != "" {
		result.Keys.Preset = override.Keys.Preset
	}
	if len(override.Routes.Labels) > 0 {
		labels := make(map[string]string, len(base.Routes.Labels)+len(override.Routes.Labels))
		for k, v := range base.Routes.Labels {
			labels[k] = v
		}
		for k, v := range override.Routes.Labels {
			labels[k] = v
		}
		result.Routes.Labels = labels
	}
	if override.Tabs.LoadingMs != nil {
		result.Tabs.LoadingMs = override.Tabs.LoadingMs
	}
	if override.API.BaseURL != "" {
		result.API.BaseURL = override.API.BaseURL
	}
	if override.API.TimeoutMs != 0 {
		result.API.TimeoutMs = override.API.TimeoutMs
	}
	if override.Server.Addr != "" {
		result.Server.Addr = override.Server.Addr
	}
	if override.Uploads.MaxBytes != 0 {
		result.Uploads.MaxBytes = override.Uploads.MaxBytes
	}
	if override.Uploads.Accept != nil {
		result.Uploads.Accept = override.Uploads.Accept
	}
	if override.Users.LatencyMs != 0 {
		result.Users.LatencyMs = override.Users.LatencyMs
	}

	if override.Extensions != nil {
		merged := make(map[string]interface{}, len(base.Extensions)+len(override.Extensions))
		for k, v := range base.Extensions {
			merged[k] = v
		}
		for key, value := range override.Extensions {
			baseMap, baseOk := merged[key].(map[string]interface{})
			overrideMap, overrideOk := value.(map[string]interface{})
			if baseOk && overrideOk {
				m := make(map[string]interface{}, len(baseMap)+len(overrideMap))
				for k, v := range baseMap {
					m[k] = v
				}
				for k, v := range overrideMap {
					m[k] = v
				}
				merged[key] = m
				continue
			}
			merged[key] = value
		}
		result.Extensions = merged
	}

	return &result
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} references.
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(nopWriter{})
	return l
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
