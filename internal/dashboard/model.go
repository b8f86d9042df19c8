package dashboard

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/minerator/viewerator/internal/errors"
	"github.com/minerator/viewerator/internal/logger"
	"github.com/minerator/viewerator/internal/telemetry"
)

// Minimum terminal size the panel is laid out for.
const (
	MinWidth  = 126
	MinHeight = 26
)

// DefaultInterval is the idle time between refreshes.
const DefaultInterval = time.Second

// LogReader returns the recent lines of the minerator log.
type LogReader interface {
	ReadRecent() []string
}

// Options configures a dashboard session.
type Options struct {
	Source telemetry.Source
	// MinerLog is tailed under the panel. Leave nil to hide the log area;
	// it is also hidden whenever the source is not live.
	MinerLog  LogReader
	Normalize telemetry.Options
	Interval  time.Duration
	Version   string
	Logger    logger.Logger
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	source    telemetry.Source
	minerLog  LogReader
	normalize telemetry.Options
	interval  time.Duration
	version   string
	log       logger.Logger
	now       func() time.Time

	snapshot    *telemetry.Snapshot
	logLines    []string
	selected    int
	history     *History
	lastSuccess time.Time
	lastErr     error

	width  int
	height int

	// refreshing is set while a refresh command is in flight. generation
	// invalidates idle timers armed before the latest key press.
	refreshing bool
	generation int

	quitting bool
	fatal    error
}

// refreshMsg fires when the terminal has been idle for the interval.
type refreshMsg struct {
	generation int
}

// snapshotMsg carries the result of one refresh.
type snapshotMsg struct {
	snapshot *telemetry.Snapshot
	lines    []string
	err      error
}

// NewModel creates a dashboard model. The first refresh starts from Init.
func NewModel(opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	if opts.Source != nil && !opts.Source.Live() {
		opts.MinerLog = nil
	}

	return Model{
		source:     opts.Source,
		minerLog:   opts.MinerLog,
		normalize:  opts.Normalize,
		interval:   opts.Interval,
		version:    opts.Version,
		log:        opts.Logger,
		now:        time.Now,
		history:    NewHistory(DefaultHistorySize),
		width:      MinWidth,
		height:     MinHeight,
		refreshing: true,
	}
}

// Init triggers the first refresh.
func (m Model) Init() tea.Cmd {
	return m.refreshCmd()
}

// Err returns the error that ended the session, if any.
func (m Model) Err() error {
	return m.fatal
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		_, cmd := m.HandleKeyMsg(msg)
		if m.quitting {
			return m, cmd
		}
		// Any key restarts the idle wait.
		return m, tea.Batch(cmd, m.armIdle())

	case tea.WindowSizeMsg:
		if msg.Width != m.width || msg.Height != m.height {
			m.log.Debug("Screen is %d X x %d Y", msg.Width, msg.Height)
		}
		m.width = msg.Width
		m.height = msg.Height

	case refreshMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		return m, m.startRefresh()

	case snapshotMsg:
		m.refreshing = false
		cmd := m.applySnapshot(msg)
		if m.quitting {
			return m, cmd
		}
		return m, tea.Batch(cmd, m.armIdle())
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render().String()
}

// armIdle schedules the next refresh one interval from now. While a refresh
// is in flight nothing is armed; its completion arms the timer.
func (m *Model) armIdle() tea.Cmd {
	m.generation++
	if m.refreshing {
		return nil
	}
	gen := m.generation
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return refreshMsg{generation: gen}
	})
}

// startRefresh launches a refresh unless one is already running.
func (m *Model) startRefresh() tea.Cmd {
	if m.refreshing {
		return nil
	}
	m.refreshing = true
	m.generation++
	return m.refreshCmd()
}

// refreshCmd fetches and normalizes one snapshot and reads the log tail. It
// only captures values, so it is safe to run off the event loop.
func (m Model) refreshCmd() tea.Cmd {
	source, minerLog, opts, log, now := m.source, m.minerLog, m.normalize, m.log, m.now
	return func() tea.Msg {
		var msg snapshotMsg
		if minerLog != nil {
			msg.lines = minerLog.ReadRecent()
		}
		if source == nil {
			msg.err = errors.New(errors.ErrFetch, "No status source configured", "")
			return msg
		}

		log.Debug("Getting data from %s", source.Describe())
		raw, err := source.Fetch(context.Background())
		if err != nil {
			msg.err = err
			return msg
		}
		snap, err := telemetry.Normalize(raw, opts)
		if err != nil {
			msg.err = err
			return msg
		}
		snap.FetchedAt = now()
		msg.snapshot = snap
		return msg
	}
}

// applySnapshot folds a refresh result into the model. Fetch and parse
// failures keep the previous snapshot on screen; an unsupported minerator
// ends the session.
func (m *Model) applySnapshot(msg snapshotMsg) tea.Cmd {
	if msg.lines != nil {
		m.logLines = msg.lines
	}

	if msg.err != nil {
		if errors.IsCode(msg.err, errors.ErrVersion) {
			m.log.Error("%s", errors.OneLine(msg.err))
			m.fatal = msg.err
			m.quitting = true
			return tea.Quit
		}
		m.lastErr = msg.err
		m.log.Warn("Refresh failed: %s", errors.OneLine(msg.err))
		return nil
	}

	var prevVariant telemetry.Variant
	if m.snapshot != nil && m.selected < len(m.snapshot.Devices) {
		prevVariant = m.snapshot.Devices[m.selected].Variant
	}

	snap := msg.snapshot
	m.snapshot = snap
	m.lastErr = nil
	m.lastSuccess = snap.FetchedAt
	m.log.Debug("Read minerator: %s, %d devices", snap.Minerator, len(snap.Devices))

	if m.selected >= len(snap.Devices) {
		m.selected = 0
	}

	keep := make(map[string]bool, len(snap.Devices))
	for _, d := range snap.Devices {
		key := deviceKey(d)
		keep[key] = true
		m.history.Push(key, telemetry.MinuteRate(d.PrimaryStats().Minute.Calculated))
	}
	m.history.Retain(keep)

	if len(snap.Devices) > 0 && prevVariant != telemetry.VariantUnknown &&
		snap.Devices[m.selected].Variant != prevVariant {
		return tea.ClearScreen
	}
	return nil
}

func deviceKey(d telemetry.Device) string {
	if d.ID != "" {
		return d.ID
	}
	return d.Name
}
