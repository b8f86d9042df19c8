package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/minerator/viewerator/internal/config"
	"github.com/minerator/viewerator/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSourceFlags(t *testing.T) {
	tests := []struct {
		name    string
		flags   dashboardFlags
		wantErr bool
	}{
		{"neither", dashboardFlags{}, false},
		{"host only", dashboardFlags{Host: "http://rig", hostSet: true}, false},
		{"input only", dashboardFlags{InputFile: "s.json", inputSet: true}, false},
		{"both", dashboardFlags{Host: "http://rig", hostSet: true, InputFile: "s.json", inputSet: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSourceFlags(tt.flags)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
				assert.Contains(t, err.Error(), "cannot be used together")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		start  func(*config.Config)
		flags  dashboardFlags
		verify func(*testing.T, *config.Config)
	}{
		{
			name:  "no flags keeps config",
			start: func(c *config.Config) { c.Host = "http://rig-07"; c.HostExplicit = true },
			flags: dashboardFlags{},
			verify: func(t *testing.T, c *config.Config) {
				assert.Equal(t, "http://rig-07", c.Host)
				assert.True(t, c.HostExplicit)
				assert.Equal(t, time.Second, c.Refresh)
			},
		},
		{
			name:  "host flag replaces configured input file",
			start: func(c *config.Config) { c.InputFile = "/tmp/capture.json" },
			flags: dashboardFlags{Host: "http://rig-08", hostSet: true},
			verify: func(t *testing.T, c *config.Config) {
				assert.Equal(t, "http://rig-08", c.Host)
				assert.True(t, c.HostExplicit)
				assert.False(t, c.UsesFile())
			},
		},
		{
			name:  "input flag replaces configured host",
			start: func(c *config.Config) { c.Host = "http://rig-07"; c.HostExplicit = true },
			flags: dashboardFlags{InputFile: "/tmp/s.json", inputSet: true},
			verify: func(t *testing.T, c *config.Config) {
				assert.Equal(t, "/tmp/s.json", c.InputFile)
				assert.False(t, c.HostExplicit)
				assert.NoError(t, config.Validate(c))
			},
		},
		{
			name:  "refresh and miner log",
			start: func(c *config.Config) {},
			flags: dashboardFlags{Refresh: 250 * time.Millisecond, MinerLog: "/srv/minerator.log"},
			verify: func(t *testing.T, c *config.Config) {
				assert.Equal(t, 250*time.Millisecond, c.Refresh)
				assert.Equal(t, "/srv/minerator.log", c.MinerLog)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.start(cfg)
			applyFlags(cfg, tt.flags)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadConfig_FirstRunCreatesDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "viewerator")

	cfg, err := loadConfig(dashboardFlags{ConfigDir: dir})
	require.NoError(t, err)

	assert.Equal(t, config.DefaultHost, cfg.Host)
	assert.FileExists(t, filepath.Join(dir, config.FileName))
}

func TestLoadConfig_FlagOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName),
		[]byte("host: http://rig-07\nrefresh: 2s\n"), 0o644))

	cfg, err := loadConfig(dashboardFlags{ConfigDir: dir, Refresh: 500 * time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, "http://rig-07", cfg.Host)
	assert.Equal(t, 500*time.Millisecond, cfg.Refresh)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName),
		[]byte("refresh: 10ms\n"), 0o644))

	_, err := loadConfig(dashboardFlags{ConfigDir: dir})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadConfig_ConflictingFlags(t *testing.T) {
	_, err := loadConfig(dashboardFlags{
		ConfigDir: t.TempDir(),
		Host:      "http://rig",
		hostSet:   true,
		InputFile: "s.json",
		inputSet:  true,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--host and --input-file")
}
