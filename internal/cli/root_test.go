package cli

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/minerator/viewerator/internal/dashboard"
	"github.com/minerator/viewerator/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		want       int
		wantStderr string
	}{
		{
			name: "success",
			err:  nil,
			want: 0,
		},
		{
			name: "undersized terminal",
			err:  dashboard.ErrUndersized,
			want: 0,
		},
		{
			name: "wrapped undersized terminal",
			err:  fmt.Errorf("session: %w", dashboard.ErrUndersized),
			want: 0,
		},
		{
			name:       "unsupported minerator",
			err:        errors.New(errors.ErrVersion, "Minerator version not supported: minerator 00.00.00", ""),
			want:       1,
			wantStderr: "✗ Minerator version not supported: minerator 00.00.00\n",
		},
		{
			name: "explicit exit code",
			err:  errors.NewExitError(3),
			want: 3,
		},
		{
			name:       "plain error",
			err:        stderrors.New("unknown flag: --foo"),
			want:       1,
			wantStderr: "unknown flag: --foo\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			assert.Equal(t, tt.want, exitCode(tt.err, &stderr))
			assert.Equal(t, tt.wantStderr, stderr.String())
		})
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := execute([]string{"frobnicate", "-c", t.TempDir()}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "frobnicate")
}

func TestExecuteVersion(t *testing.T) {
	origVersion, origShort := version, versionShort
	defer func() { version, versionShort = origVersion, origShort }()
	version = "2.0.1"

	var stdout, stderr bytes.Buffer
	code := execute([]string{"version", "--short"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, "2.0.1\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"parse", "config", "version"} {
		assert.True(t, names[want], "missing %s", want)
	}

	for _, flag := range []string{"host", "input-file", "refresh", "miner-log"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(flag), "missing --%s", flag)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().ShorthandLookup("c"))
}
