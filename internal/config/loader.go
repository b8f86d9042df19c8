package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/minerator/viewerator/internal/errors"
	"github.com/spf13/viper"
)

const (
	// DirName is the config directory created under the user's home.
	DirName = ".viewerator"
	// FileName is the config file inside the config directory.
	FileName = "config.yaml"
	// LogFileName is the application log inside the config directory.
	LogFileName = "viewerator.log"
	// EnvPrefix prefixes environment overrides, e.g. VIEWERATOR_HOST.
	EnvPrefix = "VIEWERATOR"
)

// DefaultDir returns ~/.viewerator, or .viewerator in the working directory
// when the home directory is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DirName
	}
	return filepath.Join(home, DirName)
}

// FilePath returns the config file path inside dir.
func FilePath(dir string) string {
	return filepath.Join(ExpandTilde(dir), FileName)
}

// LogPath returns the application log path inside dir.
func LogPath(dir string) string {
	return filepath.Join(ExpandTilde(dir), LogFileName)
}

// EnsureDir creates the config directory and, on first run, a default
// config file. It returns the config file path.
func EnsureDir(dir string) (string, error) {
	dir = ExpandTilde(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot create config directory "+dir,
			"Check permissions, or point --config_dir somewhere writable.")
	}

	path := FilePath(dir)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := WriteDefault(path); err != nil {
			return "", err
		}
	}
	return path, nil
}

// Load reads config from path. A missing file yields the defaults, still
// overlaid with VIEWERATOR_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check "+path+" is valid YAML, or regenerate it with 'viewerator config init --force'.")
		}
	}

	return parseConfig(v, path)
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	_, hostFromEnv := os.LookupEnv(EnvPrefix + "_HOST")
	cfg.HostExplicit = v.InConfig("host") || hostFromEnv

	cfg.InputFile = ExpandTilde(cfg.InputFile)
	cfg.MinerLog = ExpandTilde(cfg.MinerLog)
	if cfg.UnsupportedVersions == nil {
		cfg.UnsupportedVersions = []string{}
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("host", d.Host)
	v.SetDefault("input_file", d.InputFile)
	v.SetDefault("refresh", d.Refresh.String())
	v.SetDefault("request_timeout", d.RequestTimeout.String())
	v.SetDefault("miner_log", d.MinerLog)
	v.SetDefault("log_window", d.LogWindow)
	v.SetDefault("rotation_marker", d.RotationMarker)
	v.SetDefault("unsupported_versions", d.UnsupportedVersions)
	v.SetDefault("log_level", d.LogLevel)
}
