package doctor

import (
	"github.com/dustin/go-humanize"
	"github.com/minerator/viewerator/internal/logger"
	"github.com/minerator/viewerator/internal/logtail"
)

// AppLogCheck verifies that the application log can be opened for appending.
type AppLogCheck struct {
	Path string
}

func (c *AppLogCheck) Name() string     { return "app_log" }
func (c *AppLogCheck) Category() string { return "LOG" }

func (c *AppLogCheck) Run() CheckResult {
	l, err := logger.OpenFile(c.Path, logger.LevelError)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Cannot write " + c.Path + ": " + err.Error(),
			Suggestion: "Point -c at a writable directory",
		}
	}
	l.Close()
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Application log: " + c.Path,
	}
}

func (c *AppLogCheck) Fix() error {
	return nil
}

// MinerLogCheck verifies that the minerator log can be tailed.
type MinerLogCheck struct {
	Path   string
	Window int64
	Marker string
}

func (c *MinerLogCheck) Name() string     { return "miner_log" }
func (c *MinerLogCheck) Category() string { return "LOG" }

func (c *MinerLogCheck) Run() CheckResult {
	tail, err := logtail.Open(c.Path, logtail.WithWindow(c.Window), logtail.WithRotationMarker(c.Marker))
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    detail(err),
			Suggestion: "Set miner_log or --miner-log to the minerator's log file, and check you can read it",
		}
	}
	defer tail.Close()

	lines := tail.ReadRecent()
	return CheckResult{
		Name:   c.Name(),
		Status: StatusPass,
		Message: "Minerator log: " + tail.Path() + ", " + humanize.Comma(int64(len(lines))) +
			" lines in the last " + humanize.Bytes(uint64(c.Window)),
	}
}

func (c *MinerLogCheck) Fix() error {
	return nil
}
