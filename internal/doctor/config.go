package doctor

import (
	"fmt"
	"os"

	"github.com/minerator/viewerator/internal/config"
)

// ConfigFileCheck verifies that config.yaml exists in the config directory.
type ConfigFileCheck struct {
	Dir string
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return "CONFIG" }

func (c *ConfigFileCheck) Run() CheckResult {
	path := config.FilePath(c.Dir)
	if _, err := os.Stat(path); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("No config file at %s, defaults apply", path),
			Suggestion: "Run 'viewerator config init' to write one",
			Fixable:    true,
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Config file: " + path,
	}
}

// Fix writes the default config.
func (c *ConfigFileCheck) Fix() error {
	_, err := config.EnsureDir(c.Dir)
	return err
}

// ConfigValidCheck verifies that the merged config loads and validates.
type ConfigValidCheck struct {
	Dir string
}

func (c *ConfigValidCheck) Name() string     { return "config_valid" }
func (c *ConfigValidCheck) Category() string { return "CONFIG" }

func (c *ConfigValidCheck) Run() CheckResult {
	cfg, err := config.Load(config.FilePath(c.Dir))
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Failed to load config: " + detail(err),
			Suggestion: "Check the YAML syntax in " + config.FilePath(c.Dir),
		}
	}
	if err := config.Validate(cfg); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Invalid config: " + detail(err),
			Suggestion: "Fix the settings, or regenerate with 'viewerator config init --force'",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Config valid",
	}
}

func (c *ConfigValidCheck) Fix() error {
	return nil // needs a human
}

// NewConfigChecks creates all config-related checks.
func NewConfigChecks(dir string) []Check {
	return []Check{
		&ConfigFileCheck{Dir: dir},
		&ConfigValidCheck{Dir: dir},
	}
}
