package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/minerator/viewerator/internal/health"
	"github.com/minerator/viewerator/internal/telemetry"
	"github.com/minerator/viewerator/internal/ui"
)

// Panel anchors, as (row, col).
const (
	railsRow, railsValueCol = 5, 16
	phasesRow, phasesCol    = 4, 26
	clockRow, clockCol      = 4, 50
	trendRow, trendCol      = 4, 82
	sysmonRow, sysmonCol    = 9, 50
	statsRow                = 14
	logRow                  = 21

	sysmonWidth = 16
	trendWidth  = DefaultHistorySize
)

// legend shows the five health colors, worst first.
var legend = []struct {
	level health.Level
	text  string
}{
	{health.Critical, " --- "},
	{health.SlowDecrease, "  -  "},
	{health.Hold, "     "},
	{health.SlowIncrease, "  +  "},
	{health.RampUp, " +++ "},
}

const counterHeader = "WrkReq |Calcul |Found  |Valid  |Submit |Accept"

func (m Model) render() *canvas {
	c := newCanvas(m.width, m.height)

	if m.width < MinWidth || m.height < MinHeight {
		m.renderResizeNotice(c)
		return c
	}

	m.renderHeader(c)

	if m.snapshot == nil {
		msg := "Waiting for minerator status"
		if m.source != nil {
			msg += " from " + m.source.Describe()
		}
		if m.lastErr != nil {
			msg += " (last attempt failed, see log)"
		}
		c.put(2, 0, msg, muted)
		return c
	}

	devices := m.snapshot.Devices
	if len(devices) > 1 {
		m.renderDeviceStrip(c, 1, 30)
	}
	m.renderStale(c)

	if len(devices) == 0 {
		c.put(2, 0, "No devices reported by the minerator", muted)
		return c
	}

	d := devices[m.selected]
	c.put(2, 0, "HWUID: "+d.ID, plain)
	c.put(3, 0, fmt.Sprintf("Name:  %s (%s)", d.Name, d.Variant), plain)

	renderRails(c, d)
	if d.Variant == telemetry.VariantTypeA {
		renderPhases(c, phasesRow, phasesCol, d.Phases)
	}
	renderClock(c, clockRow, clockCol, d.Cores[0].Clock)
	m.renderTrend(c, trendRow, trendCol, d)
	renderSysmons(c, sysmonRow, sysmonCol, d.Sysmons)
	renderStats(c, statsRow, 0, d)

	if m.minerLog != nil {
		m.renderLog(c, d)
	}
	return c
}

func (m Model) renderResizeNotice(c *canvas) {
	c.put(0, 0, fmt.Sprintf("Console screen must be at least %d x %d, current is %d x %d",
		MinWidth, MinHeight, m.width, m.height), bold)
	c.put(1, 0, "Enlarge the terminal to see the panel, or press delete to exit.", plain)
}

func (m Model) renderHeader(c *canvas) {
	c.put(0, 0, fmt.Sprintf("Viewerator v%s, press delete to exit", m.version), plain)

	col := c.width - 47
	for _, l := range legend {
		c.put(0, col, l.text, healthAttr(l.level))
		col += len(l.text)
	}

	label := ""
	if m.snapshot != nil {
		label = m.snapshot.Minerator
	}
	c.put(0, c.width-20, "Minerator: "+label, plain)
	c.hline(1, 0, c.width)
}

// renderDeviceStrip numbers the devices. The selected one is bold and
// underlined, the others take the color of their worst health.
func (m Model) renderDeviceStrip(c *canvas, row, col int) {
	prefix := " Current device is highlighted: "
	c.put(row, col, prefix, plain)
	col += len(prefix)

	for i, d := range m.snapshot.Devices {
		n := fmt.Sprintf("%d", i+1)
		a := healthAttr(d.WorstHealth)
		if i == m.selected {
			a = selected
		}
		c.put(row, col, n, a)
		c.put(row, col+len(n), "  ", plain)
		col += len(n) + 2
	}
}

// renderStale flags a panel that is older than the last refresh attempt.
func (m Model) renderStale(c *canvas) {
	if m.lastErr == nil {
		return
	}
	age := m.now().Sub(m.lastSuccess).Round(time.Second)
	if age < 0 {
		age = 0
	}
	c.put(1, 0, fmt.Sprintf(" stale %ds ", int(age.Seconds())), healthAttr(health.Hold))
}

func renderRails(c *canvas, d telemetry.Device) {
	c.hline(railsRow-1, 0, 24)

	r := d.Rails
	rows := []struct {
		label string
		value telemetry.Reading
	}{
		{"Input Power", r.InputPower},
		{"AUX 12V", r.Aux12V},
		{"AUX Current", r.AuxCurrent},
		{"PEX 12V", r.Pex12V},
		{"PEX Current", r.PexCurrent},
		{"VCCINT", r.VccInt},
		{"VCCINT Current", r.VccIntCurrent},
	}
	if d.Variant == telemetry.VariantTypeA {
		rows = append(rows, struct {
			label string
			value telemetry.Reading
		}{"VRCTRL Temp", r.VRCtrlTemp})
	}

	for i, row := range rows {
		c.put(railsRow+i, 0, row.label, plain)
		c.put(railsRow+i, railsValueCol, ui.FormatSensor(row.value.Value), healthAttr(row.value.Health))
	}
}

func renderPhases(c *canvas, row, col int, phases [2]telemetry.Phase) {
	c.hline(row, col, 22)
	for i, p := range phases {
		y := row + 1 + i*4
		c.put(y, col, fmt.Sprintf("LTC3884 Phase %d", i), plain)
		c.put(y+1, col, "Global status", plain)
		c.put(y+1, col+14, fmt.Sprintf("0x%06x", p.StatusGlobal), plain)
		c.put(y+2, col, "temperature", plain)
		c.put(y+2, col+14, ui.FormatSensor(p.Temperature.Value), healthAttr(p.Temperature.Health))
		c.put(y+3, col, "vout", plain)
		c.put(y+3, col+14, ui.FormatSensor(p.Vout), plain)
	}
}

func renderClock(c *canvas, row, col int, clock telemetry.Clock) {
	c.hline(row, col, 28)
	a := healthAttr(clock.Health)
	c.put(row+1, col, "Clock Multiplier", plain)
	c.put(row+1, col+20, ui.FormatSensor(clock.Multiplier), a)
	c.put(row+2, col, "Bad Nonces", plain)
	c.put(row+2, col+20, ui.FormatSensor(clock.BadNonces), a)
	c.put(row+3, col, "Total Nonces", plain)
	c.put(row+3, col+20, ui.FormatSensor(clock.TotalNonces), a)
}

// renderTrend draws the last-minute calculated rate of the device over the
// session.
func (m Model) renderTrend(c *canvas, row, col int, d telemetry.Device) {
	width := c.width - col - 1
	if width > trendWidth {
		width = trendWidth
	}
	if width < 8 {
		return
	}

	c.hline(row, col, width)
	c.put(row+1, col, "Calculated, last minute", plain)

	samples := m.history.Last(deviceKey(d), width)
	c.put(row+2, col, ui.Sparkline(samples, width), healthAttr(d.WorstHealth))
	if len(samples) > 0 {
		c.put(row+3, col, "now "+strings.TrimSpace(ui.FormatRate(samples[len(samples)-1])), plain)
	}
}

func renderSysmons(c *canvas, row, col int, sysmons []telemetry.Sysmon) {
	c.hline(row, col, sysmonWidth*len(sysmons))
	for i, s := range sysmons {
		x := col + i*sysmonWidth
		c.put(row+1, x, fmt.Sprintf("Sysmon %d", i), plain)
		c.put(row+2, x, "temp", plain)
		c.put(row+2, x+7, ui.FormatSensor(s.Temperature), healthAttr(s.Health))
		c.put(row+3, x, "vccint", plain)
		c.put(row+3, x+7, ui.FormatSensor(s.VccInt), plain)
	}
}

func renderStats(c *canvas, row, col int, d telemetry.Device) {
	c.put(row, col, "Worker/Pool Name", plain)
	c.hline(row+2, col, 27)

	c.put(row, col+28, "Since start [MH/s]", plain)
	c.put(row+1, col+28, counterHeader, plain)
	c.hline(row+2, col+28, 48)

	c.put(row, col+78, "Last Minute [MH/s]", plain)
	c.put(row+1, col+78, counterHeader, plain)
	c.hline(row+2, col+78, 48)

	renderStatLine(c, row+3, col, d.WorkSource.Stats)
	renderStatLine(c, row+4, col, d.Fee.Stats)
	renderStatLine(c, row+5, col, d.PrimaryStats())
}

func renderStatLine(c *canvas, row, col int, s telemetry.WorkStats) {
	c.put(row, col, fmt.Sprintf("%-29s", s.Name), plain)

	total := []float64{s.Total.Requested, s.Total.Calculated, s.Total.Found,
		s.Total.Valid, s.Total.Submitted, s.Total.Accepted}
	for i, v := range total {
		c.put(row, col+28+i*8, ui.FormatRate(s.Total.Rate(v)), plain)
	}

	minute := []float64{s.Minute.Requested, s.Minute.Calculated, s.Minute.Found,
		s.Minute.Valid, s.Minute.Submitted, s.Minute.Accepted}
	for i, v := range minute {
		c.put(row, col+78+i*8, ui.FormatRate(telemetry.MinuteRate(v)), plain)
	}
}

// renderLog shows the newest log lines about the selected device or the fee
// stream, as many as fit below the panel.
func (m Model) renderLog(c *canvas, d telemetry.Device) {
	lines := filterLog(m.logLines, d.PrimaryStats().Name, feeLabel(m.snapshot))

	available := c.height - logRow
	if len(lines) > available {
		lines = lines[len(lines)-available:]
	}
	for i, line := range lines {
		c.put(logRow+i, 0, line, logAttr(line))
	}
}

// filterLog keeps lines that mention "<device>: " or the fee label. An
// unnamed device matches on the fee label only.
func filterLog(lines []string, device, fee string) []string {
	tag := device + ": "
	var out []string
	for _, line := range lines {
		if (device != "" && strings.Contains(line, tag)) || strings.Contains(line, fee) {
			out = append(out, line)
		}
	}
	return out
}

// feeLabel is the name the minerator uses for the fee stream in its log.
func feeLabel(snap *telemetry.Snapshot) string {
	if snap != nil && snap.Fee.Stats.Name != "" {
		return snap.Fee.Stats.Name
	}
	return "Fee"
}

// logAttr colors warnings and errors. A line carrying both tags is a warning.
func logAttr(line string) attr {
	switch {
	case strings.Contains(line, "WRN"):
		return healthAttr(health.Hold)
	case strings.Contains(line, "ERR"):
		return healthAttr(health.Critical)
	default:
		return plain
	}
}
