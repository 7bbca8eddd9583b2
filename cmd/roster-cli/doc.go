// Package main provides the entry point for roster-cli.
//
// roster-cli is the command-line client for the employee records API,
// supporting both single-command mode and interactive REPL mode.
package main
