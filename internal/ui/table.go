package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a Bubbles table with the default styling. The table is
// never focused; it is only used to lay out plain CLI output.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true)
	// Nothing is selected in a printed table.
	s.Selected = lipgloss.NewStyle()

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	return NewTable(columns, tableRows).View()
}

// DeviceRow is one line of a device summary.
type DeviceRow struct {
	Name       string
	ID         string
	Variant    string
	Health     string
	InputPower float64
	VccInt     float64
	TotalRate  float64
	MinuteRate float64
}

// DeviceColumns are the columns of RenderDeviceTable.
var DeviceColumns = []TableColumn{
	{Title: "Device", Width: 14},
	{Title: "HWUID", Width: 36},
	{Title: "Type", Width: 5},
	{Title: "Health", Width: 13},
	{Title: "Power", Width: 8},
	{Title: "VCCINT", Width: 8},
	{Title: "Since start", Width: 11},
	{Title: "Last minute", Width: 11},
}

// RenderDeviceTable renders a device summary, one row per device, with
// sensors formatted like the dashboard.
func RenderDeviceTable(rows []DeviceRow) string {
	if len(rows) == 0 {
		return "No devices reported"
	}

	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{
			r.Name,
			r.ID,
			r.Variant,
			r.Health,
			FormatSensor(r.InputPower),
			FormatSensor(r.VccInt),
			FormatRate(r.TotalRate),
			FormatRate(r.MinuteRate),
		}
	}
	return RenderSimpleTable(DeviceColumns, cells)
}
