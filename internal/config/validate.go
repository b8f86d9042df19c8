package config

import (
	"fmt"
	"strings"

	"github.com/minerator/viewerator/internal/errors"
	"github.com/minerator/viewerator/internal/logger"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.HostExplicit && cfg.InputFile != "" {
		return errors.New(errors.ErrConfig,
			"Both host and input_file are set",
			"Pick one: poll a minerator with host, or replay a capture with input_file.")
	}

	if !cfg.UsesFile() && strings.TrimSpace(cfg.Host) == "" {
		return errors.New(errors.ErrConfig,
			"No minerator host configured",
			"Set host in config.yaml or pass --host http://<minerator>.")
	}

	if err := validateTiming(cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Durations use Go syntax, e.g. 500ms, 1s, 2m.")
	}

	if err := validateLog(cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Check the log settings in config.yaml.")
	}

	if _, err := logger.ParseLevel(cfg.LogLevel); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("log_level '%s' isn't valid", cfg.LogLevel),
			"Use debug, info, warn, or error.")
	}

	return nil
}

func validateTiming(cfg *Config) error {
	if cfg.Refresh < MinRefresh {
		return fmt.Errorf("refresh %s is too short - the minimum is %s", cfg.Refresh, MinRefresh)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", cfg.RequestTimeout)
	}
	return nil
}

func validateLog(cfg *Config) error {
	if cfg.LogWindow <= 0 {
		return fmt.Errorf("log_window must be positive, got %d", cfg.LogWindow)
	}
	if cfg.RotationMarker == "" {
		return fmt.Errorf("rotation_marker can't be empty")
	}
	if !cfg.UsesFile() && strings.TrimSpace(cfg.MinerLog) == "" {
		return fmt.Errorf("miner_log can't be empty when polling a minerator")
	}
	return nil
}
