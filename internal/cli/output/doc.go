// Package output renders view states for roster-cli.
//
// Printer writes employees, key/value listings and messages in one of
// three formats: an aligned table for people, JSON and YAML for scripts.
// Spinner animates the Loading phase in table mode on a terminal.
package output
