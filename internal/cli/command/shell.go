package command

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/roster-go/internal/cli/config"
	"github.com/yndnr/roster-go/internal/cli/navigation"
	"github.com/yndnr/roster-go/internal/cli/repl"
	"github.com/yndnr/roster-go/internal/infra/confloader"
	"github.com/yndnr/roster-go/internal/telemetry/logger"
)

const shellName = "shell"

func shellCommand() *cli.Command {
	return &cli.Command{
		Name:   shellName,
		Usage:  "Start an interactive session",
		Action: runShell,
	}
}

// runShell hosts a REPL whose lines are dispatched back through the app.
// The runtime, and with it the session and router, lives for the whole
// shell, so session events surface between prompts.
func runShell(c *cli.Context) error {
	rt := runtimeFrom(c)
	app := c.App
	log := rt.Logger.With("component", "shell")

	r := repl.New(repl.Config{
		In:  app.Reader,
		Out: app.Writer,
		Prompt: func() string {
			return "roster:" + rt.Router.Current().Path() + "> "
		},
		Exec: func(ctx context.Context, args []string) error {
			if args[0] == shellName {
				return errors.New("already in a shell")
			}
			err := app.RunContext(ctx, append([]string{app.Name}, args...))
			if err != nil {
				return errors.New(ErrorMessage(err))
			}
			return nil
		},
		History:   repl.NewHistory(filepath.Join(filepath.Dir(rt.ConfigPath), "history"), repl.DefaultHistorySize),
		Completer: repl.NewCompleter(commandLines(app.Commands)...),
		Logger:    log,
	})

	prev := rt.Prompter
	rt.Prompter = r
	defer func() { rt.Prompter = prev }()

	rt.Router.OnChange(func(loc navigation.Location) {
		if loc.Route == navigation.RouteLogin && loc.Reason == navigation.ReasonSessionExpired {
			r.Notify(navigation.ReasonSessionExpired)
		}
	})

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()
	watchConfig(ctx, rt.ConfigPath, log)

	return r.Run(ctx)
}

// watchConfig applies log level changes made to the config file while
// the shell runs. A missing config directory disables watching.
func watchConfig(ctx context.Context, path string, log *slog.Logger) {
	w, err := confloader.NewWatcher(path, confloader.WithWatcherLogger(log))
	if err != nil {
		log.Debug("config watch disabled", "path", path, "error", err)
		return
	}
	w.OnChange(func(p string) {
		cfg, err := config.Load(p, nil)
		if err != nil {
			log.Warn("config reload failed", "path", p, "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	go func() {
		w.Run(ctx)
		w.Close()
	}()
}

// commandLines lists "cmd" and "cmd sub" for every command and alias.
func commandLines(cmds []*cli.Command) []string {
	var out []string
	for _, cmd := range cmds {
		if cmd.Hidden {
			continue
		}
		for _, name := range cmd.Names() {
			if len(cmd.Subcommands) == 0 {
				out = append(out, name)
				continue
			}
			for _, sub := range cmd.Subcommands {
				out = append(out, name+" "+sub.Name)
			}
		}
	}
	return out
}
