package logging

// Config is the "logging" section of tabdeck.yml.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	// TABDECK_LOG_LEVEL takes precedence.
	Level string `yaml:"level"`

	// ReportCaller adds file, line and function to each entry.
	// Also enabled by TABDECK_LOG_CALLER=true.
	ReportCaller bool `yaml:"report_caller"`

	File   FileSinkConfig `yaml:"file"`
	Format FormatConfig   `yaml:"format"`
}

// FileSinkConfig configures the file sink. When Path is empty, logs go to
// <state>/logs/<component>-<date>.log.
type FileSinkConfig struct {
	Disabled bool   `yaml:"disabled"`
	Path     string `yaml:"path"`
}

// FormatConfig controls the log output format.
type FormatConfig struct {
	// Preset is "default" (rich text), "simple" or "json".
	Preset           string `yaml:"preset"`
	DisableTimestamp bool   `yaml:"disable_timestamp"`
	DisableComponent bool   `yaml:"disable_component"`
	// StructuredToStderr is "auto" (default), "always" or "never". In auto
	// mode stderr only receives entries when debugging or not on a terminal,
	// which keeps the shell's screen clean.
	StructuredToStderr string `yaml:"structured_to_stderr"`
}
