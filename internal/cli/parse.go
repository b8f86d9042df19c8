package cli

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/minerator/viewerator/internal/config"
	"github.com/minerator/viewerator/internal/errors"
	"github.com/minerator/viewerator/internal/telemetry"
	"github.com/minerator/viewerator/internal/ui"
	"github.com/spf13/cobra"
)

var parseJSON bool

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Normalize a status payload and print a device summary",
	Long: `Read a minerator status payload from FILE, normalize it the way the
dashboard does, and print one line per device. Useful for checking a
capture, or scripting against a rig without a terminal.

Examples:
  viewerator parse status.json
  viewerator parse status.json --json
  curl -s http://rig-07.local/api/status > s.json && viewerator parse s.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return parseCommand(cmd.Context(), cmd.OutOrStdout(), configDir, args[0], parseJSON)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "print the summary as JSON")
}

// ParseReport is the --json output of the parse command.
type ParseReport struct {
	Minerator string          `json:"minerator"`
	Fee       string          `json:"fee,omitempty"`
	Source    string          `json:"work_source,omitempty"`
	Devices   []DeviceSummary `json:"devices"`
}

// DeviceSummary is one device of a ParseReport. Rates are per second;
// TotalRate is omitted when the lifetime window is empty.
type DeviceSummary struct {
	Name        string   `json:"name"`
	ID          string   `json:"hwuid"`
	Variant     string   `json:"type"`
	Health      string   `json:"health"`
	InputPower  float64  `json:"input_power"`
	VccInt      float64  `json:"vccint"`
	TotalRate   *float64 `json:"calculated_since_start,omitempty"`
	MinuteRate  float64  `json:"calculated_last_minute"`
	Sysmons     int      `json:"sysmons"`
	BadNonces   float64  `json:"bad_nonces"`
	TotalNonces float64  `json:"total_nonces"`
}

// parseCommand normalizes the payload at path with the unsupported versions
// from the config directory, and writes a table or JSON to out.
func parseCommand(ctx context.Context, out io.Writer, dir, path string, asJSON bool) error {
	report, err := buildReport(ctx, dir, path)
	if asJSON {
		if err != nil {
			if werr := WriteJSONFromError(out, err); werr != nil {
				return werr
			}
			return errors.NewExitError(1)
		}
		return WriteJSONSuccess(out, report)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Minerator: %s\n", report.Minerator)
	if report.Source != "" {
		fmt.Fprintf(out, "Work source: %s\n", report.Source)
	}
	fmt.Fprintln(out)

	rows := make([]ui.DeviceRow, len(report.Devices))
	for i, d := range report.Devices {
		total := math.NaN()
		if d.TotalRate != nil {
			total = *d.TotalRate
		}
		rows[i] = ui.DeviceRow{
			Name:       d.Name,
			ID:         d.ID,
			Variant:    d.Variant,
			Health:     d.Health,
			InputPower: d.InputPower,
			VccInt:     d.VccInt,
			TotalRate:  total,
			MinuteRate: d.MinuteRate,
		}
	}
	fmt.Fprintln(out, ui.RenderDeviceTable(rows))
	return nil
}

func buildReport(ctx context.Context, dir, path string) (*ParseReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(config.FilePath(dir))
	if err != nil {
		return nil, err
	}

	raw, err := telemetry.NewFileSource(config.ExpandTilde(path)).Fetch(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := telemetry.Normalize(raw, telemetry.Options{UnsupportedVersions: cfg.UnsupportedVersions})
	if err != nil {
		return nil, err
	}

	report := &ParseReport{
		Minerator: snap.Minerator,
		Fee:       snap.Fee.Stats.Name,
		Source:    snap.WorkSource.Stats.Name,
		Devices:   make([]DeviceSummary, 0, len(snap.Devices)),
	}
	for _, d := range snap.Devices {
		stats := d.PrimaryStats()
		clock := d.Cores[0].Clock
		report.Devices = append(report.Devices, DeviceSummary{
			Name:        d.Name,
			ID:          d.ID,
			Variant:     d.Variant.String(),
			Health:      d.WorstHealth.String(),
			InputPower:  d.Rails.InputPower.Value,
			VccInt:      d.Rails.VccInt.Value,
			TotalRate:   finite(stats.Total.Rate(stats.Total.Calculated)),
			MinuteRate:  telemetry.MinuteRate(stats.Minute.Calculated),
			Sysmons:     len(d.Sysmons),
			BadNonces:   clock.BadNonces,
			TotalNonces: clock.TotalNonces,
		})
	}
	return report, nil
}

// finite returns nil for the NaN and Inf of a zero-length window.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
