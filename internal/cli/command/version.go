package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/roster-go/internal/cli/output"
	"github.com/yndnr/roster-go/internal/infra/buildinfo"
)

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show build information",
		Action: func(c *cli.Context) error {
			info := buildinfo.Get()
			p := printer(c)
			if p.Format() != output.FormatTable {
				return p.Value(info)
			}
			return p.Pairs([]output.Pair{
				{Key: "Version", Value: info.Version},
				{Key: "Commit", Value: info.Commit},
				{Key: "Built", Value: info.BuildTime},
				{Key: "Go", Value: info.GoVersion},
				{Key: "Platform", Value: info.Platform},
			})
		},
	}
}
