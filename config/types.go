package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Config is the tabdeck configuration read from tabdeck.yml or tabdeck.toml.
type Config struct {
	Version string `yaml:"version" toml:"version" json:"version" jsonschema:"description=Configuration version (e.g. '1.0')"`

	// Theme selects the TUI palette: kanagawa, gruvbox or terminal.
	Theme string `yaml:"theme,omitempty" toml:"theme,omitempty" json:"theme,omitempty" jsonschema:"enum=kanagawa,enum=gruvbox,enum=terminal,description=TUI color palette"`
	// Icons selects nerd font glyphs or ASCII fallbacks.
	Icons string `yaml:"icons,omitempty" toml:"icons,omitempty" json:"icons,omitempty" jsonschema:"enum=nerd,enum=ascii,description=Icon set used in the tab bar and menu"`

	Keys    KeysConfig    `yaml:"keys,omitempty" toml:"keys,omitempty" json:"keys,omitempty" jsonschema:"description=Keybinding settings"`
	Routes  RoutesConfig  `yaml:"routes,omitempty" toml:"routes,omitempty" json:"routes,omitempty" jsonschema:"description=Route table overrides"`
	Tabs    TabsConfig    `yaml:"tabs,omitempty" toml:"tabs,omitempty" json:"tabs,omitempty" jsonschema:"description=Tab session settings"`
	API     APIConfig     `yaml:"api,omitempty" toml:"api,omitempty" json:"api,omitempty" jsonschema:"description=Remote API used by the home page"`
	Server  ServerConfig  `yaml:"server,omitempty" toml:"server,omitempty" json:"server,omitempty" jsonschema:"description=Local session API"`
	Uploads UploadsConfig `yaml:"uploads,omitempty" toml:"uploads,omitempty" json:"uploads,omitempty" jsonschema:"description=Upload page limits"`
	Users   UsersConfig   `yaml:"users,omitempty" toml:"users,omitempty" json:"users,omitempty" jsonschema:"description=User management page"`

	// Extensions captures all other top-level keys for extensibility.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" json:"-" jsonschema:"-"`
}

// KeysConfig selects the keybinding preset and per-action overrides.
type KeysConfig struct {
	Preset string `yaml:"preset,omitempty" toml:"preset,omitempty" json:"preset,omitempty" jsonschema:"enum=vim,enum=arrows,description=Keybinding preset"`
	// Overrides maps snake_case action names (close_tab, next_tab) to keys.
	Overrides map[string][]string `yaml:"overrides,omitempty" toml:"overrides,omitempty" json:"overrides,omitempty" jsonschema:"description=Keys per action replacing the preset's bindings"`
}

// RoutesConfig overrides route labels, keyed by path.
type RoutesConfig struct {
	Labels map[string]string `yaml:"labels,omitempty" toml:"labels,omitempty" json:"labels,omitempty" jsonschema:"description=Tab and menu labels keyed by route path"`
}

// TabsConfig tunes the tab bar.
type TabsConfig struct {
	LoadingMs *int `yaml:"loading_ms,omitempty" toml:"loading_ms,omitempty" json:"loading_ms,omitempty" jsonschema:"minimum=0,description=How long the loading indicator shows after a tab switch (0 disables)"`
}

// APIConfig points at the posts endpoint.
type APIConfig struct {
	BaseURL   string `yaml:"base_url,omitempty" toml:"base_url,omitempty" json:"base_url,omitempty" jsonschema:"description=Base URL of the posts API"`
	TimeoutMs int    `yaml:"timeout_ms,omitempty" toml:"timeout_ms,omitempty" json:"timeout_ms,omitempty" jsonschema:"minimum=0,description=Request timeout in milliseconds"`
}

// ServerConfig configures tabdeck serve.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty" toml:"addr,omitempty" json:"addr,omitempty" jsonschema:"description=Listen address for the session API"`
}

// UploadsConfig limits what the upload page accepts.
type UploadsConfig struct {
	MaxBytes int64    `yaml:"max_bytes,omitempty" toml:"max_bytes,omitempty" json:"max_bytes,omitempty" jsonschema:"minimum=0,description=Largest accepted file in bytes"`
	Accept   []string `yaml:"accept,omitempty" toml:"accept,omitempty" json:"accept,omitempty" jsonschema:"description=File name patterns accepted by the upload page"`
}

// UsersConfig tunes the mock user directory.
type UsersConfig struct {
	LatencyMs int `yaml:"latency_ms,omitempty" toml:"latency_ms,omitempty" json:"latency_ms,omitempty" jsonschema:"minimum=0,description=Simulated latency of directory calls"`
}

// Defaults.
const (
	DefaultVersion    = "1.0"
	DefaultTheme      = "kanagawa"
	DefaultIcons      = "nerd"
	DefaultKeyPreset  = "vim"
	DefaultLoadingMs  = 200
	DefaultAPIBaseURL = "https://jsonplaceholder.typicode.com"
	DefaultTimeoutMs  = 5000
	DefaultServerAddr = "127.0.0.1:7420"
	DefaultMaxBytes   = 10 * 1024 * 1024
)

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills empty fields with their default values.
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
	if c.Icons == "" {
		c.Icons = DefaultIcons
	}
	if c.Keys.Preset == "" {
		c.Keys.Preset = DefaultKeyPreset
	}
	if c.Tabs.LoadingMs == nil {
		ms := DefaultLoadingMs
		c.Tabs.LoadingMs = &ms
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultAPIBaseURL
	}
	if c.API.TimeoutMs == 0 {
		c.API.TimeoutMs = DefaultTimeoutMs
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Uploads.MaxBytes == 0 {
		c.Uploads.MaxBytes = DefaultMaxBytes
	}
}

// LoadingDuration returns tabs.loading_ms as a duration.
func (c *Config) LoadingDuration() time.Duration {
	if c.Tabs.LoadingMs == nil {
		return DefaultLoadingMs * time.Millisecond
	}
	return time.Duration(*c.Tabs.LoadingMs) * time.Millisecond
}

// APITimeout returns api.timeout_ms as a duration.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutMs) * time.Millisecond
}

// UserLatency returns users.latency_ms as a duration.
func (c *Config) UserLatency() time.Duration {
	return time.Duration(c.Users.LatencyMs) * time.Millisecond
}

// UnmarshalExtension decodes a specific extension's configuration into the
// provided target struct. The target must be a pointer.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// It's not an error if the key doesn't exist.
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
