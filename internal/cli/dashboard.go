package cli

import (
	stderrors "errors"
	"io"
	"strings"

	"github.com/minerator/viewerator/internal/config"
	"github.com/minerator/viewerator/internal/dashboard"
	"github.com/minerator/viewerator/internal/errors"
	"github.com/minerator/viewerator/internal/logger"
	"github.com/minerator/viewerator/internal/logtail"
	"github.com/minerator/viewerator/internal/telemetry"
)

// runDashboard is swapped out in tests.
var runDashboard = dashboard.Run

// dashboardCommand resolves the settings, opens the logs and runs the
// dashboard session.
func dashboardCommand(flags dashboardFlags, stderr io.Writer) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)
	appLog, err := logger.OpenFile(config.LogPath(flags.ConfigDir), level)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrLog,
			"Cannot open the application log",
			"Check that "+config.LogPath(flags.ConfigDir)+" is writable.")
	}
	defer appLog.Close()
	logger.SetDefault(appLog)

	// Startup notes also reach stderr; the terminal is still ours.
	startup := logger.Multi(appLog, logger.New(stderr, logger.LevelWarn))
	appLog.Info("Viewerator %s starting", formatVersion(version))

	if cfg.UsesFile() && flags.MinerLog != "" {
		startup.Warn("--miner-log is ignored with an input file; the log is only tailed when polling a host")
	}

	opts, cleanup, err := dashboardOptions(cfg, appLog)
	if err != nil {
		appLog.Error("%s", errors.OneLine(err))
		return err
	}
	defer cleanup()

	err = runDashboard(opts)
	switch {
	case err == nil:
		appLog.Info("Viewerator exited")
	case stderrors.Is(err, dashboard.ErrUndersized):
	default:
		appLog.Error("%s", errors.OneLine(err))
	}
	return err
}

// dashboardOptions builds the status source and, in live mode, opens the
// minerator log. cleanup releases whatever was opened.
func dashboardOptions(cfg *config.Config, appLog logger.Logger) (dashboard.Options, func(), error) {
	cleanup := func() {}

	source, err := newSource(cfg)
	if err != nil {
		return dashboard.Options{}, cleanup, err
	}

	opts := dashboard.Options{
		Source:    source,
		Normalize: telemetry.Options{UnsupportedVersions: cfg.UnsupportedVersions},
		Interval:  cfg.Refresh,
		Version:   strings.TrimPrefix(formatVersion(version), "v"),
		Logger:    appLog,
	}

	if !source.Live() {
		appLog.Info("Reading status from %s; the minerator log is not shown", source.Describe())
		return opts, cleanup, nil
	}

	tail, err := logtail.Open(cfg.MinerLog,
		logtail.WithWindow(cfg.LogWindow),
		logtail.WithRotationMarker(cfg.RotationMarker),
		logtail.WithLogger(appLog))
	if err != nil {
		return dashboard.Options{}, cleanup, err
	}
	appLog.Info("Tailing minerator log %s", tail.Path())
	opts.MinerLog = tail
	return opts, func() { tail.Close() }, nil
}

// newSource returns the status source cfg selects.
func newSource(cfg *config.Config) (telemetry.Source, error) {
	if cfg.UsesFile() {
		return telemetry.NewFileSource(cfg.InputFile), nil
	}
	return telemetry.NewHTTPSource(cfg.Host, telemetry.WithTimeout(cfg.RequestTimeout))
}
