package dashboard

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/minerator/viewerator/internal/health"
	"github.com/minerator/viewerator/internal/ui"
)

// attrKind selects how a canvas cell is drawn.
type attrKind uint8

const (
	kindPlain attrKind = iota
	kindHealth
	kindSelected
	kindBold
	kindMuted
)

// attr is the drawing attribute of a canvas cell. It is comparable so runs of
// equal cells can be rendered together.
type attr struct {
	kind  attrKind
	level health.Level
}

var (
	plain    = attr{}
	bold     = attr{kind: kindBold}
	selected = attr{kind: kindSelected}
	muted    = attr{kind: kindMuted}
)

func healthAttr(l health.Level) attr {
	return attr{kind: kindHealth, level: l}
}

var (
	boldStyle     = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(ui.ColorMuted)
)

// style returns the lipgloss style for the attribute. Plain cells are not
// styled at all.
func (a attr) style() (lipgloss.Style, bool) {
	switch a.kind {
	case kindHealth:
		return ui.HealthStyle(a.level), true
	case kindSelected:
		return selectedStyle, true
	case kindBold:
		return boldStyle, true
	case kindMuted:
		return mutedStyle, true
	default:
		return lipgloss.Style{}, false
	}
}
