package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/minerator/viewerator/internal/errors"
	"github.com/minerator/viewerator/internal/telemetry"
)

// SourceCheck fetches one payload and normalizes it the way the dashboard
// would.
type SourceCheck struct {
	Source telemetry.Source
	Opts   telemetry.Options
}

func (c *SourceCheck) Name() string     { return "status_source" }
func (c *SourceCheck) Category() string { return "SOURCE" }

func (c *SourceCheck) Run() CheckResult {
	raw, err := c.Source.Fetch(context.Background())
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Cannot read " + c.Source.Describe() + ": " + detail(err),
			Suggestion: "Check --host or input_file, and that the minerator is running",
		}
	}

	snap, err := telemetry.Normalize(raw, c.Opts)
	switch {
	case errors.IsCode(err, errors.ErrVersion):
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    detail(err),
			Suggestion: "Upgrade the minerator, or edit unsupported_versions",
		}
	case err != nil:
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    detail(err),
			Suggestion: "Capture the payload with 'curl <host>/api/status' and check it with 'viewerator parse'",
		}
	case len(snap.Devices) == 0:
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: fmt.Sprintf("%s reports no devices", snap.Minerator),
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s, %d device%s", snap.Minerator, len(snap.Devices), pluralize(len(snap.Devices))),
	}
}

func (c *SourceCheck) Fix() error {
	return nil
}

// detail is err on one line without the leading failure mark; the report
// draws its own.
func detail(err error) string {
	return strings.TrimPrefix(errors.OneLine(err), "✗ ")
}
