package cli

import (
	"time"

	"github.com/minerator/viewerator/internal/config"
	"github.com/minerator/viewerator/internal/errors"
	"github.com/spf13/cobra"
)

// dashboardFlags holds the command-line overrides of the dashboard settings.
type dashboardFlags struct {
	ConfigDir string
	Host      string
	InputFile string
	Refresh   time.Duration
	MinerLog  string

	hostSet  bool
	inputSet bool
}

// addDashboardFlags registers --host, --input-file, --refresh and --miner-log.
func addDashboardFlags(cmd *cobra.Command, flags *dashboardFlags) {
	cmd.Flags().StringVar(&flags.Host, "host", "", "minerator base URL (default from config, "+config.DefaultHost+")")
	cmd.Flags().StringVar(&flags.InputFile, "input-file", "", "read the status payload from a file instead of polling")
	cmd.Flags().DurationVar(&flags.Refresh, "refresh", 0, "idle time between refreshes, e.g. 1s or 500ms")
	cmd.Flags().StringVar(&flags.MinerLog, "miner-log", "", "minerator log tailed under the panel")
}

// validateSourceFlags checks that --host and --input-file are not used together.
func validateSourceFlags(flags dashboardFlags) error {
	if flags.hostSet && flags.inputSet {
		return errors.New(errors.ErrConfig,
			"--host and --input-file cannot be used together",
			"Use --host to poll a minerator, or --input-file to replay a capture, but not both.")
	}
	return nil
}

// applyFlags overlays flags on cfg. A source flag replaces whichever source
// the config file or environment selected.
func applyFlags(cfg *config.Config, flags dashboardFlags) {
	if flags.hostSet {
		cfg.Host = flags.Host
		cfg.HostExplicit = true
		cfg.InputFile = ""
	}
	if flags.inputSet {
		cfg.InputFile = config.ExpandTilde(flags.InputFile)
		cfg.HostExplicit = false
	}
	if flags.Refresh != 0 {
		cfg.Refresh = flags.Refresh
	}
	if flags.MinerLog != "" {
		cfg.MinerLog = config.ExpandTilde(flags.MinerLog)
	}
}

// loadConfig creates the config directory if needed, reads config.yaml and
// the environment, applies flags and validates the result.
func loadConfig(flags dashboardFlags) (*config.Config, error) {
	if err := validateSourceFlags(flags); err != nil {
		return nil, err
	}

	path, err := config.EnsureDir(flags.ConfigDir)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	applyFlags(cfg, flags)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
