// Package config holds the roster-cli settings.
//
// Settings live in $XDG_CONFIG_HOME/roster/config.yaml (see DefaultPath)
// and are layered by confloader: defaults, the file, ROSTER_* variables,
// then command-line flags. Every setting has a dotted key, for example
// client.api_url, used by the config subcommand and the environment.
package config
