package config

import "time"

const (
	// DefaultHost is the minerator polled when nothing else is configured.
	DefaultHost = "http://localhost"
	// DefaultMinerLog is where the minerator writes its log.
	DefaultMinerLog = "/var/log/minerator.log"
	// DefaultLogWindow is how many trailing bytes of the minerator log are scanned.
	DefaultLogWindow = 80000
	// DefaultRotationMarker is the line the minerator writes before rolling its log.
	DefaultRotationMarker = "Received SIGHUP"
	// MinRefresh is the shortest idle refresh interval accepted.
	MinRefresh = 100 * time.Millisecond
)

// Config is the viewerator configuration, read from config.yaml in the
// config directory, VIEWERATOR_* environment variables and flags.
type Config struct {
	// Host is the minerator base URL; /api/status is appended.
	Host string `yaml:"host" mapstructure:"host"`

	// InputFile replays a captured status payload instead of polling.
	InputFile string `yaml:"input_file" mapstructure:"input_file"`

	// Refresh is the idle interval between polls.
	Refresh time.Duration `yaml:"refresh" mapstructure:"refresh"`

	// RequestTimeout bounds a single status request.
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`

	// MinerLog is the minerator log tailed under the panel in live mode.
	MinerLog string `yaml:"miner_log" mapstructure:"miner_log"`

	// LogWindow is the number of trailing log bytes read per refresh.
	LogWindow int64 `yaml:"log_window" mapstructure:"log_window"`

	// RotationMarker is the log line announcing a log rotation.
	RotationMarker string `yaml:"rotation_marker" mapstructure:"rotation_marker"`

	// UnsupportedVersions are substrings of minerator labels that the viewer
	// refuses to display.
	UnsupportedVersions []string `yaml:"unsupported_versions" mapstructure:"unsupported_versions"`

	// LogLevel is the minimum level written to the application log:
	// debug, info, warn or error.
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`

	// HostExplicit records that Host came from the config file, the
	// environment or a flag rather than the default.
	HostExplicit bool `yaml:"-" mapstructure:"-"`
}

// UsesFile reports whether payloads come from InputFile.
func (c *Config) UsesFile() bool {
	return c.InputFile != ""
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:                DefaultHost,
		Refresh:             time.Second,
		RequestTimeout:      5 * time.Second,
		MinerLog:            DefaultMinerLog,
		LogWindow:           DefaultLogWindow,
		RotationMarker:      DefaultRotationMarker,
		UnsupportedVersions: []string{},
		LogLevel:            "debug",
	}
}
