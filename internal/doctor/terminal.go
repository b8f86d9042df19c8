package doctor

import "fmt"

// TerminalCheck verifies that the terminal fits the dashboard.
type TerminalCheck struct {
	// Size reports the terminal size; it fails when stdout is not a terminal.
	Size      func() (width, height int, err error)
	MinWidth  int
	MinHeight int
}

func (c *TerminalCheck) Name() string     { return "terminal_size" }
func (c *TerminalCheck) Category() string { return "TERMINAL" }

func (c *TerminalCheck) Run() CheckResult {
	w, h, err := c.Size()
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: "Not running in a terminal, size unknown",
		}
	}
	if w < c.MinWidth || h < c.MinHeight {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Terminal is %d x %d, the dashboard needs %d x %d", w, h, c.MinWidth, c.MinHeight),
			Suggestion: "Enlarge the window or reduce the font size",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Terminal is %d x %d", w, h),
	}
}

func (c *TerminalCheck) Fix() error {
	return nil
}
