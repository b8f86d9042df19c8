// Package logtail reads a bounded recent window of the minerator log so the
// dashboard can overlay it, following the file across log rotation.
package logtail

import (
	"bufio"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/minerator/viewerator/internal/errors"
	"github.com/minerator/viewerator/internal/logger"
)

const (
	// DefaultWindow is how many bytes from the end of the log are read.
	DefaultWindow = 80000
	// DefaultRotationMarker is the line the minerator writes when it is told
	// to reopen its log; everything after it in the old file is stale.
	DefaultRotationMarker = "Received SIGHUP"

	maxLineBytes = 1 << 20
)

// Tail holds an open handle on a log file.
type Tail struct {
	path   string
	f      *os.File
	window int64
	marker string
	log    logger.Logger
}

// Option configures a Tail.
type Option func(*Tail)

// WithWindow sets the byte budget read from the end of the file.
func WithWindow(n int64) Option {
	return func(t *Tail) {
		if n > 0 {
			t.window = n
		}
	}
}

// WithRotationMarker sets the substring that signals a rotated log.
func WithRotationMarker(marker string) Option {
	return func(t *Tail) {
		if marker != "" {
			t.marker = marker
		}
	}
}

// WithLogger sets the logger used for rotation and read notices.
func WithLogger(l logger.Logger) Option {
	return func(t *Tail) {
		if l != nil {
			t.log = l
		}
	}
}

// Open opens the log at path. Failure is returned as an ErrLog error; the
// dashboard cannot show its overlay without the file.
func Open(path string, opts ...Option) (*Tail, error) {
	t := &Tail{
		path:   path,
		window: DefaultWindow,
		marker: DefaultRotationMarker,
		log:    logger.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrLog,
			"Can't open minerator log "+path,
			"Check the path with --miner-log and that you can read it.")
	}
	t.f = f
	return t, nil
}

// Path returns the log path being followed.
func (t *Tail) Path() string {
	return t.path
}

// ReadRecent returns the lines in the last window bytes of the log. Each call
// re-reads from the file. If a rotation marker is found the handle is
// reopened on the path and the lines read so far are returned.
func (t *Tail) ReadRecent() []string {
	size, err := t.f.Seek(0, io.SeekEnd)
	if err != nil {
		t.log.Warn("log tail: seek %s: %v", t.path, err)
		return nil
	}

	offset := int64(0)
	if size > t.window {
		offset = size - t.window
	}
	if _, err := t.f.Seek(offset, io.SeekStart); err != nil {
		t.log.Warn("log tail: seek %s: %v", t.path, err)
		return nil
	}
	t.log.Debug("log tail: reading %s of %s from %s",
		humanize.Bytes(uint64(size-offset)), humanize.Bytes(uint64(size)), t.path)

	var lines []string
	scanner := bufio.NewScanner(t.f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Text()
		if !utf8.ValidString(line) {
			line = ""
		}
		if strings.Contains(line, t.marker) {
			t.reopen()
			break
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		// A line longer than the scanner allows ends the read; keep what we have.
		t.log.Debug("log tail: read %s: %v", t.path, err)
		lines = append(lines, "")
	}

	return lines
}

// reopen replaces the handle with a fresh one on the same path. If the new
// file can't be opened yet the old handle is kept and retried on the next
// rotation marker.
func (t *Tail) reopen() {
	f, err := os.Open(t.path)
	if err != nil {
		t.log.Warn("log tail: reopen %s after rotation: %v", t.path, err)
		return
	}
	t.f.Close()
	t.f = f
	t.log.Info("minerator log rolled, opened new one")
}

// Close releases the file handle.
func (t *Tail) Close() error {
	return t.f.Close()
}
