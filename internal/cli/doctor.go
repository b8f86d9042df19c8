package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/minerator/viewerator/internal/config"
	"github.com/minerator/viewerator/internal/dashboard"
	"github.com/minerator/viewerator/internal/doctor"
	"github.com/minerator/viewerator/internal/errors"
	"github.com/minerator/viewerator/internal/telemetry"
	"github.com/minerator/viewerator/internal/ui"
	"github.com/spf13/cobra"
)

var (
	doctorJSON  bool
	doctorFix   bool
	doctorFlags dashboardFlags
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config, minerator and terminal issues",
	Long: `Run the checks the dashboard depends on and report what is wrong:

  - config.yaml exists and is valid
  - the status source answers with a payload this viewer understands
  - the application log is writable and the minerator log readable
  - the terminal is at least 126 x 26

Takes the same source flags as the dashboard.

Examples:
  viewerator doctor
  viewerator doctor --host http://rig-07.local
  viewerator doctor --fix
  viewerator doctor --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := doctorFlags
		flags.ConfigDir = configDir
		flags.hostSet = cmd.Flags().Changed("host")
		flags.inputSet = cmd.Flags().Changed("input-file")
		return doctorCommand(cmd.OutOrStdout(), flags, doctorFix, doctorJSON, dashboard.TerminalSize)
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	addDashboardFlags(doctorCmd, &doctorFlags)
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "attempt automatic fixes where possible")
}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	Fixable  int  `json:"fixable"`
	AllClear bool `json:"all_clear"`
}

var categoryOrder = []string{"CONFIG", "SOURCE", "LOG", "TERMINAL"}

// doctorCommand runs the checks and prints the report. Failures end with
// exit status 1 once the report is out.
func doctorCommand(out io.Writer, flags dashboardFlags, fix, asJSON bool, size func() (int, int, error)) error {
	if err := validateSourceFlags(flags); err != nil {
		return err
	}

	checks := collectChecks(flags, size)
	results := doctor.Run(checks)
	if fix {
		results = doctor.Fix(checks, results)
	}

	var err error
	if asJSON {
		err = outputDoctorJSON(out, checks, results)
	} else {
		outputDoctorText(out, checks, results, fix)
	}
	if err != nil {
		return err
	}
	if doctor.Count(results).Fail > 0 {
		return errors.NewExitError(1)
	}
	return nil
}

// collectChecks gathers the checks that apply. Source and log checks need a
// valid config; the config checks report why when it is not.
func collectChecks(flags dashboardFlags, size func() (int, int, error)) []doctor.Check {
	checks := doctor.NewConfigChecks(flags.ConfigDir)
	checks = append(checks, &doctor.AppLogCheck{Path: config.LogPath(flags.ConfigDir)})

	cfg, err := config.Load(config.FilePath(flags.ConfigDir))
	if err == nil {
		applyFlags(cfg, flags)
		err = config.Validate(cfg)
	}
	if err == nil {
		if source, serr := newSource(cfg); serr == nil {
			checks = append(checks, &doctor.SourceCheck{
				Source: source,
				Opts:   telemetry.Options{UnsupportedVersions: cfg.UnsupportedVersions},
			})
			if source.Live() {
				checks = append(checks, &doctor.MinerLogCheck{
					Path:   cfg.MinerLog,
					Window: cfg.LogWindow,
					Marker: cfg.RotationMarker,
				})
			}
		}
	}

	return append(checks, &doctor.TerminalCheck{
		Size:      size,
		MinWidth:  dashboard.MinWidth,
		MinHeight: dashboard.MinHeight,
	})
}

// outputDoctorJSON outputs results in JSON format.
func outputDoctorJSON(out io.Writer, checks []doctor.Check, results []doctor.CheckResult) error {
	grouped := groupResults(checks, results)

	output := DoctorOutput{Categories: make([]CategoryOutput, 0, len(grouped))}
	for _, cat := range categoryOrder {
		if len(grouped[cat]) > 0 {
			output.Categories = append(output.Categories, CategoryOutput{Name: cat, Results: grouped[cat]})
		}
	}

	tally := doctor.Count(results)
	output.Summary = SummaryOutput{
		Pass:     tally.Pass,
		Warn:     tally.Warn,
		Fail:     tally.Fail,
		Fixable:  tally.Fixable,
		AllClear: tally.Issues() == 0,
	}
	return WriteJSONSuccess(out, output)
}

// outputDoctorText outputs results in human-readable format.
func outputDoctorText(out io.Writer, checks []doctor.Check, results []doctor.CheckResult, fixed bool) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.BoldStyle.Render("Viewerator Diagnostic Report"))
	fmt.Fprintln(out)

	grouped := groupResults(checks, results)
	for _, cat := range categoryOrder {
		if len(grouped[cat]) == 0 {
			continue
		}
		fmt.Fprintln(out, ui.BoldStyle.Render(cat))
		for _, r := range grouped[cat] {
			renderCheckResult(out, r)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, strings.Repeat("━", 60))
	fmt.Fprintln(out)

	tally := doctor.Count(results)
	if tally.Issues() == 0 {
		fmt.Fprintf(out, "%s %s\n", ui.SuccessStyle.Render(ui.SymbolSuccess), tally.Summary())
	} else {
		fmt.Fprintf(out, "%s %s\n", ui.ErrorStyle.Render(ui.SymbolFail), tally.Summary())
		if tally.Fixable > 0 && !fixed {
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  Run with %s to attempt automatic fixes where possible.\n",
				ui.MutedStyle.Render("--fix"))
		}
	}
	fmt.Fprintln(out)
}

func groupResults(checks []doctor.Check, results []doctor.CheckResult) map[string][]doctor.CheckResult {
	grouped := make(map[string][]doctor.CheckResult)
	for i, check := range checks {
		grouped[check.Category()] = append(grouped[check.Category()], results[i])
	}
	return grouped
}

// renderCheckResult renders a single check result.
func renderCheckResult(out io.Writer, result doctor.CheckResult) {
	symbol, style := ui.SymbolSuccess, ui.SuccessStyle
	switch result.Status {
	case doctor.StatusWarn:
		style = ui.WarnStyle
	case doctor.StatusFail:
		symbol, style = ui.SymbolFail, ui.ErrorStyle
	}

	fmt.Fprintf(out, "  %s %s\n", style.Render(symbol), result.Message)
	if result.Suggestion != "" && result.Status != doctor.StatusPass {
		for _, line := range strings.Split(result.Suggestion, "\n") {
			fmt.Fprintf(out, "    %s\n", ui.MutedStyle.Render(line))
		}
	}
}
