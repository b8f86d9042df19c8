// Package cli implements the viewerator command-line interface.
//
// The root command runs the dashboard. Subcommands exercise the same
// pieces without a terminal session:
//
//	viewerator                      - dashboard for http://localhost
//	viewerator --host URL           - dashboard for another minerator
//	viewerator --input-file PATH    - dashboard replaying a captured payload
//	viewerator parse FILE [--json]  - normalize a payload and print a summary
//	viewerator config init|show     - manage ~/.viewerator/config.yaml
//	viewerator doctor               - diagnose config, source, logs and terminal
//	viewerator version              - build information
//
// # Startup
//
// The dashboard command resolves its settings in three layers: config.yaml
// in the config directory (created on first run), VIEWERATOR_* environment
// variables, then flags. --host and --input-file override each other's
// config counterpart; naming both on the command line is an error.
//
// Once the config is valid the application log is opened in the config
// directory. In live mode the minerator log must be readable too, since the
// dashboard tails it; failing to open it ends the program before the
// terminal is taken over.
//
// # Exit Codes
//
//	0  the user quit, or the terminal was too small (already reported)
//	1  bad config, unreadable log, unsupported minerator, terminal failure
package cli
