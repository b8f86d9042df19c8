package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/minerator/viewerator/internal/config"
	"github.com/minerator/viewerator/internal/dashboard"
	"github.com/minerator/viewerator/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureDir = "../telemetry/testdata"

// stubDashboard replaces the terminal session and records its options.
func stubDashboard(t *testing.T, result error) *[]dashboard.Options {
	t.Helper()
	var calls []dashboard.Options
	orig := runDashboard
	runDashboard = func(opts dashboard.Options) error {
		calls = append(calls, opts)
		return result
	}
	t.Cleanup(func() { runDashboard = orig })
	return &calls
}

func readAppLog(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(config.LogPath(dir))
	require.NoError(t, err)
	return string(data)
}

func TestDashboardCommand_InputFile(t *testing.T) {
	calls := stubDashboard(t, nil)
	dir := t.TempDir()
	input := filepath.Join(fixtureDir, "4bcu.json")

	var stderr bytes.Buffer
	err := dashboardCommand(dashboardFlags{
		ConfigDir: dir,
		InputFile: input,
		inputSet:  true,
	}, &stderr)
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	opts := (*calls)[0]
	assert.False(t, opts.Source.Live())
	assert.Equal(t, input, opts.Source.Describe())
	assert.Nil(t, opts.MinerLog)
	assert.Equal(t, config.DefaultConfig().Refresh, opts.Interval)
	assert.NotNil(t, opts.Logger)
	assert.Empty(t, stderr.String())

	log := readAppLog(t, dir)
	assert.Contains(t, log, "Viewerator")
	assert.Contains(t, log, "the minerator log is not shown")
}

func TestDashboardCommand_InputFileIgnoresMinerLog(t *testing.T) {
	stubDashboard(t, nil)

	var stderr bytes.Buffer
	err := dashboardCommand(dashboardFlags{
		ConfigDir: t.TempDir(),
		InputFile: filepath.Join(fixtureDir, "4bcu.json"),
		inputSet:  true,
		MinerLog:  "/srv/minerator.log",
	}, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "WRN --miner-log is ignored")
}

func TestDashboardCommand_LiveTailsMinerLog(t *testing.T) {
	var opts dashboard.Options
	var lines []string
	orig := runDashboard
	runDashboard = func(o dashboard.Options) error {
		opts = o
		lines = o.MinerLog.ReadRecent()
		return nil
	}
	t.Cleanup(func() { runDashboard = orig })

	dir := t.TempDir()
	minerLog := filepath.Join(t.TempDir(), "minerator.log")
	require.NoError(t, os.WriteFile(minerLog, []byte("INF BCU-01: share accepted\n"), 0o644))

	err := dashboardCommand(dashboardFlags{
		ConfigDir: dir,
		Host:      "http://rig-07.local:8080",
		hostSet:   true,
		MinerLog:  minerLog,
	}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.True(t, opts.Source.Live())
	assert.Equal(t, "http://rig-07.local:8080/api/status", opts.Source.Describe())
	assert.Equal(t, []string{"INF BCU-01: share accepted"}, lines)
	assert.Contains(t, readAppLog(t, dir), "Tailing minerator log "+minerLog)
}

func TestDashboardCommand_MissingMinerLogIsFatal(t *testing.T) {
	calls := stubDashboard(t, nil)
	dir := t.TempDir()

	err := dashboardCommand(dashboardFlags{
		ConfigDir: dir,
		Host:      "http://rig-07",
		hostSet:   true,
		MinerLog:  filepath.Join(t.TempDir(), "missing.log"),
	}, &bytes.Buffer{})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrLog))
	assert.Empty(t, *calls, "the terminal is never taken over")
	assert.Contains(t, readAppLog(t, dir), "ERR")
}

func TestDashboardCommand_Outcomes(t *testing.T) {
	tests := []struct {
		name      string
		result    error
		wantLog   string
		unwantLog string
	}{
		{
			name:    "quit",
			result:  nil,
			wantLog: "Viewerator exited",
		},
		{
			name:      "undersized",
			result:    dashboard.ErrUndersized,
			unwantLog: "ERR",
		},
		{
			name:    "unsupported version",
			result:  errors.New(errors.ErrVersion, "Minerator version not supported: minerator 00.00.00", ""),
			wantLog: "ERR ✗ Minerator version not supported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubDashboard(t, tt.result)
			dir := t.TempDir()

			err := dashboardCommand(dashboardFlags{
				ConfigDir: dir,
				InputFile: filepath.Join(fixtureDir, "4bcu.json"),
				inputSet:  true,
			}, &bytes.Buffer{})
			assert.Equal(t, tt.result, err)

			log := readAppLog(t, dir)
			if tt.wantLog != "" {
				assert.Contains(t, log, tt.wantLog)
			}
			if tt.unwantLog != "" {
				assert.NotContains(t, log, tt.unwantLog)
			}
		})
	}
}

func TestNewSource(t *testing.T) {
	cfg := config.DefaultConfig()
	src, err := newSource(cfg)
	require.NoError(t, err)
	assert.True(t, src.Live())
	assert.Equal(t, "http://localhost/api/status", src.Describe())

	cfg.InputFile = "/tmp/capture.json"
	src, err = newSource(cfg)
	require.NoError(t, err)
	assert.False(t, src.Live())

	cfg = config.DefaultConfig()
	cfg.Host = "http://"
	_, err = newSource(cfg)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}
