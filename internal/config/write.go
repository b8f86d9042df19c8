package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/minerator/viewerator/internal/errors"
	"gopkg.in/yaml.v3"
)

// Encode renders cfg as commented YAML. Durations are written in Go syntax
// ("1s") so the file stays editable by hand.
func Encode(cfg *Config) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	addScalar(doc, "host", cfg.Host, "!!str",
		"Minerator base URL; /api/status is appended.")
	addScalar(doc, "input_file", cfg.InputFile, "!!str",
		"Replay a captured status file instead of polling host.")
	addScalar(doc, "refresh", cfg.Refresh.String(), "!!str",
		"Idle time between refreshes. A key press restarts the wait.")
	addScalar(doc, "request_timeout", cfg.RequestTimeout.String(), "!!str", "")
	addScalar(doc, "miner_log", cfg.MinerLog, "!!str",
		"Minerator log tailed under the panel when polling a live host.")
	addScalar(doc, "log_window", strconv.FormatInt(cfg.LogWindow, 10), "!!int",
		"Trailing bytes of miner_log read on every refresh.")
	addScalar(doc, "rotation_marker", cfg.RotationMarker, "!!str",
		"Log line written by the minerator right before it rolls the log.")

	versions := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	for _, v := range cfg.UnsupportedVersions {
		versions.Content = append(versions.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v})
	}
	addNode(doc, "unsupported_versions", versions,
		"Minerator labels containing any of these are refused.")

	addScalar(doc, "log_level", cfg.LogLevel, "!!str",
		"Application log level: debug, info, warn or error.")

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{doc}}); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return []byte(buf.String()), nil
}

// WriteDefault writes the default config to path, replacing any existing file.
func WriteDefault(path string) error {
	data, err := Encode(DefaultConfig())
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to render default config", "")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot create config directory "+filepath.Dir(path),
			"Check directory permissions")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config file "+path,
			"Check file permissions")
	}
	return nil
}

func addScalar(m *yaml.Node, key, value, tag, comment string) {
	addNode(m, key, &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}, comment)
}

func addNode(m *yaml.Node, key string, value *yaml.Node, comment string) {
	if comment != "" {
		comment = "# " + comment
	}
	keyNode := &yaml.Node{
		Kind:        yaml.ScalarNode,
		Tag:         "!!str",
		Value:       key,
		HeadComment: comment,
	}
	m.Content = append(m.Content, keyNode, value)
}
