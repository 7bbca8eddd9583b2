// Package confloader layers configuration sources with koanf.
//
// Sources are applied in order, each overriding the previous one:
//
//  1. defaults supplied by the caller
//  2. a YAML file (optional; a missing file is not an error)
//  3. environment variables with the ROSTER_ prefix
//  4. an explicit map, normally built from command-line flags
//
// Watcher reports edits to the configuration file so long-lived processes
// can re-apply settings such as the log level.
package confloader
