package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/roster-go/internal/cli/config"
	"github.com/yndnr/roster-go/internal/cli/output"
)

// configCommand returns the config subcommand group.
func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:      "get",
				Usage:     "Print one setting",
				ArgsUsage: "KEY",
				Action:    configGet,
			},
			{
				Name:      "set",
				Usage:     "Change one setting in the config file",
				ArgsUsage: "KEY VALUE",
				Action:    configSet,
			},
			{
				Name:   "path",
				Usage:  "Print the config file path",
				Action: configPath,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	cfg := runtimeFrom(c).Config
	p := printer(c)
	if p.Format() != output.FormatTable {
		return p.Value(cfg.Map())
	}

	pairs := make([]output.Pair, 0, len(config.Keys()))
	for _, key := range config.Keys() {
		v, _ := cfg.Get(key)
		pairs = append(pairs, output.Pair{Key: key, Value: v})
	}
	return p.Pairs(pairs)
}

func configGet(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: config get KEY")
	}
	v, err := runtimeFrom(c).Config.Get(c.Args().First())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, v)
	return err
}

// configSet edits the file, not the running process. Flag overrides of
// this invocation are not written back.
func configSet(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: config set KEY VALUE")
	}
	key, value := c.Args().Get(0), c.Args().Get(1)

	rt := runtimeFrom(c)
	cfg, err := config.Load(rt.ConfigPath, nil)
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.Save(cfg, rt.ConfigPath); err != nil {
		return err
	}

	printer(c).Message("Set %s = %s in %s", key, value, rt.ConfigPath)
	return nil
}

func configPath(c *cli.Context) error {
	_, err := fmt.Fprintln(c.App.Writer, runtimeFrom(c).ConfigPath)
	return err
}
