package command

import (
	"errors"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/roster-go/internal/cli/config"
	"github.com/yndnr/roster-go/internal/cli/output"
	"github.com/yndnr/roster-go/internal/core/domain"
	"github.com/yndnr/roster-go/internal/infra/buildinfo"
	"github.com/yndnr/roster-go/internal/infra/shutdown"
	"github.com/yndnr/roster-go/internal/storage"
)

const runtimeKey = "runtime"

// Options configures the application's streams and lifecycle.
type Options struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Shutdown receives the runtime's close hooks. When nil the caller
	// owns no cleanup and resources are released at process exit.
	Shutdown *shutdown.Handler
}

// App creates the CLI application bound to the process streams.
func App() *cli.App {
	return New(Options{})
}

// New creates the CLI application.
func New(opts Options) *cli.App {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}

	app := &cli.App{
		Name:      "roster-cli",
		Usage:     "Employee records client",
		Version:   buildinfo.Get().String(),
		Reader:    opts.In,
		Writer:    opts.Out,
		ErrWriter: opts.Err,
		Flags:     globalFlags(),
		Commands: []*cli.Command{
			authCommand(),
			employeeCommand(),
			configCommand(),
			shellCommand(),
			versionCommand(),
		},
		Metadata: map[string]any{},
		Before: func(c *cli.Context) error {
			if _, ok := c.App.Metadata[runtimeKey]; ok {
				return nil
			}
			rt, err := newRuntime(c.Context, runtimeOptions{
				ConfigPath: c.String("config"),
				Overrides:  overrides(c),
				In:         c.App.Reader,
				Err:        c.App.ErrWriter,
				Shutdown:   opts.Shutdown,
			})
			if err != nil {
				return err
			}
			c.App.Metadata[runtimeKey] = rt
			return nil
		},
		Action: func(c *cli.Context) error {
			if c.NArg() > 0 {
				return cli.Exit("unknown command: "+c.Args().First(), 1)
			}
			if f, ok := c.App.Reader.(*os.File); ok && output.IsTerminal(f) {
				return runShell(c)
			}
			return cli.ShowAppHelp(c)
		},
		HideHelpCommand: true,
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file path",
			EnvVars: []string{config.EnvConfigPath},
			Value:   config.DefaultPath(),
		},
		&cli.StringFlag{
			Name:  "api-url",
			Usage: "Employee API base URL (e.g., http://localhost:8080/api)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "storage",
			Usage: "Token store: memory, file, badger",
		},
		&cli.StringFlag{
			Name:  "storage-dir",
			Usage: "Directory of the token store",
		},
		&cli.BoolFlag{
			Name:  "ephemeral",
			Usage: "Keep the session in memory only",
		},
	}
}

// overrides maps explicitly set global flags onto setting keys.
func overrides(c *cli.Context) map[string]any {
	flags := map[string]string{
		"api-url":     "client.api_url",
		"output":      "output.format",
		"log-level":   "log.level",
		"storage":     "storage.backend",
		"storage-dir": "storage.dir",
	}
	out := make(map[string]any)
	for flag, key := range flags {
		if c.IsSet(flag) {
			out[key] = c.String(flag)
		}
	}
	if c.Bool("ephemeral") {
		out["storage.backend"] = storage.BackendMemory
	}
	return out
}

// runtimeFrom returns the runtime built by Before.
func runtimeFrom(c *cli.Context) *Runtime {
	return c.App.Metadata[runtimeKey].(*Runtime)
}

// ErrorMessage renders err for the user. Classified failures show their
// human-readable message only; transport detail stays in the logs.
func ErrorMessage(err error) string {
	var derr *domain.Error
	if errors.As(err, &derr) {
		return domain.UserMessage(derr)
	}
	return err.Error()
}
