// Package command provides CLI command definitions for roster-cli.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: Root command, global flags, mode detection
//   - runtime.go: Per-process wiring of config, session, client and views
//   - auth.go: Login, logout and session status
//   - employee.go: Employee subcommand group driving the list, detail and form views
//   - config.go: Configuration subcommand group
//   - shell.go: Interactive REPL mode
//   - version.go: Build information
//
// Commands parse flags, drive a view through its load cycle and format
// the resulting state.
package command
