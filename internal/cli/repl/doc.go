// Package repl runs roster-cli as a long-lived interactive process.
//
// Each input line is split into arguments and handed to an Executor,
// normally the urfave/cli application itself, so the shell and one-shot
// mode share every command. Notices such as "Session expired" can be
// printed from other goroutines between prompts.
package repl
