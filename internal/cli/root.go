package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/minerator/viewerator/internal/config"
	"github.com/minerator/viewerator/internal/dashboard"
	"github.com/minerator/viewerator/internal/errors"
	"github.com/spf13/cobra"
)

// configDir is shared by every command.
var configDir string

var rootFlags dashboardFlags

var rootCmd = &cobra.Command{
	Use:   "viewerator",
	Short: "Terminal dashboard for a minerator rig",
	Long: `Viewerator polls a minerator's /api/status endpoint and shows the
telemetry of one accelerator card at a time: power rails, regulator phases,
clock health, on-die monitors and work statistics, with the minerator log
for that card underneath.

Keys:
  1-9       Show device N
  delete    Exit

Examples:
  viewerator
  viewerator --host http://rig-07.local:8080
  viewerator --input-file status.json
  viewerator --refresh 5s`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := rootFlags
		flags.ConfigDir = configDir
		flags.hostSet = cmd.Flags().Changed("host")
		flags.inputSet = cmd.Flags().Changed("input-file")
		return dashboardCommand(flags, cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config_dir", "c", config.DefaultDir(),
		"directory holding config.yaml and viewerator.log")
	addDashboardFlags(rootCmd, &rootFlags)
}

// Execute runs the root command and exits with its status.
func Execute() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return exitCode(rootCmd.Execute(), stderr)
}

// exitCode reports err on stderr and maps it to the process status. An
// undersized terminal has already been reported and is not a failure.
func exitCode(err error, stderr io.Writer) int {
	if err == nil || stderrors.Is(err, dashboard.ErrUndersized) {
		return 0
	}
	if code, ok := errors.GetExitCode(err); ok {
		return code
	}
	fmt.Fprint(stderr, ensureNewline(err.Error()))
	return 1
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
