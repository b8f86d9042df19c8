package dashboard

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/minerator/viewerator/internal/errors"
	"github.com/minerator/viewerator/internal/logger"
	"golang.org/x/term"
)

// ErrUndersized is returned by Run when the terminal is too small for the
// panel. The user has already been told; the CLI exits successfully.
var ErrUndersized = stderrors.New("terminal smaller than the dashboard")

// terminalSize reports the size of the controlling terminal.
var terminalSize = func() (width, height int, err error) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, 0, errors.New(errors.ErrTerminal,
			"viewerator needs an interactive terminal",
			"Run it directly in a terminal, or use 'viewerator parse' for scripted output.")
	}
	w, h, err := term.GetSize(fd)
	if err != nil {
		return 0, 0, errors.WrapWithCode(err, errors.ErrTerminal,
			"Cannot read the terminal size", "")
	}
	return w, h, nil
}

// TerminalSize reports the size of the controlling terminal, or an
// ErrTerminal error when stdout is not a terminal.
func TerminalSize() (width, height int, err error) {
	return terminalSize()
}

// Run shows the dashboard until the user exits or a fatal error occurs. The
// terminal is restored before Run returns.
func Run(opts Options) error {
	return run(opts, os.Stdout, nil)
}

func run(opts Options, out io.Writer, programOpts []tea.ProgramOption) error {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
		opts.Logger = log
	}

	width, height, err := terminalSize()
	if err != nil {
		return err
	}
	if err := checkSize(width, height, out, log); err != nil {
		return err
	}
	log.Debug("Screen is %d X x %d Y", width, height)

	programOpts = append([]tea.ProgramOption{tea.WithAltScreen()}, programOpts...)
	program := tea.NewProgram(NewModel(opts), programOpts...)

	final, err := program.Run()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrTerminal,
			"Dashboard terminated unexpectedly",
			"Check the application log for details.")
	}
	if m, ok := final.(Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

// checkSize tells the user, on out and in the log, when the terminal is
// below the minimum panel size.
func checkSize(width, height int, out io.Writer, log logger.Logger) error {
	var msg string
	switch {
	case width < MinWidth:
		msg = fmt.Sprintf("Console screen must be at least %d columns in X, current X is %d", MinWidth, width)
	case height < MinHeight:
		msg = fmt.Sprintf("Console screen must be at least %d rows in Y, current Y is %d", MinHeight, height)
	default:
		return nil
	}
	fmt.Fprintln(out, msg)
	log.Error("%s", msg)
	return ErrUndersized
}
