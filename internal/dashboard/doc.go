// Package dashboard implements the full-screen viewerator panel.
//
// Run probes the terminal, then hands it to a Bubble Tea program on the
// alternate screen. The program owns raw mode and restores the terminal on
// every exit path, including fatal errors: the model quits first and Run
// reports the error once the terminal is released.
//
// Architecture:
//   - Model: state for one session (snapshot, selected device, log lines)
//   - refresh: fetch, normalize and log tail, run as a single tea.Cmd
//   - canvas: fixed-cell screen buffer the View paints at absolute positions
//   - History: per-device ring buffers for the throughput trend
//
// Refreshes happen when the terminal has been idle for the refresh interval.
// A key press restarts the wait, and only one refresh is ever in flight.
package dashboard
