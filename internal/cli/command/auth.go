package command

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/roster-go/internal/cli/navigation"
	"github.com/yndnr/roster-go/internal/cli/output"
	"github.com/yndnr/roster-go/pkg/token"
)

// authCommand returns the auth subcommand group.
func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Log in and out of the employee API",
		Subcommands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in and store the access token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "username",
						Aliases: []string{"u"},
						Usage:   "Username (prompted when omitted)",
						EnvVars: []string{"ROSTER_USERNAME"},
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Password (prompted when omitted)",
						EnvVars: []string{"ROSTER_PASSWORD"},
					},
				},
				Action: authLogin,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored access token",
				Action: authLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the current session",
				Action: authStatus,
			},
		},
	}
}

func authLogin(c *cli.Context) error {
	rt := runtimeFrom(c)

	username := c.String("username")
	if username == "" {
		answer, err := rt.Prompter.Ask("Username: ")
		if err != nil {
			return err
		}
		username = answer
	}
	password := c.String("password")
	if password == "" {
		answer, err := rt.Prompter.Ask("Password: ")
		if err != nil {
			return err
		}
		password = answer
	}

	sp := startSpinner(c, "Logging in")
	if err := rt.Session.Login(c.Context, username, password); err != nil {
		sp.Fail("Login failed")
		return err
	}
	sp.Stop()

	printer(c).Message("Logged in as %s.", username)
	return nil
}

func authLogout(c *cli.Context) error {
	rt := runtimeFrom(c)
	rt.Session.Logout()
	printer(c).Message("Logged out.")
	return nil
}

func authStatus(c *cli.Context) error {
	rt := runtimeFrom(c)

	pairs := []output.Pair{
		{Key: "Authenticated", Value: yesNo(rt.Session.IsAuthenticated())},
		{Key: "View", Value: rt.Router.Current().Path()},
	}
	if tok, ok := rt.Session.Token(); ok {
		pairs = append(pairs, output.Pair{Key: "Token", Value: token.Fingerprint(tok)})
	}
	if claims, ok := rt.Session.Claims(); ok {
		pairs = append(pairs, output.Pair{Key: "Subject", Value: claims.Subject})
		if claims.Issuer != "" {
			pairs = append(pairs, output.Pair{Key: "Issuer", Value: claims.Issuer})
		}
		if !claims.IssuedAt.IsZero() {
			pairs = append(pairs, output.Pair{Key: "Issued", Value: claims.IssuedAt.Format(time.RFC3339)})
		}
		if !claims.ExpiresAt.IsZero() {
			pairs = append(pairs,
				output.Pair{Key: "Expires", Value: claims.ExpiresAt.Format(time.RFC3339)},
				output.Pair{Key: "Expired", Value: yesNo(claims.Expired(time.Now()))})
		}
	}
	if loc := rt.Router.Current(); loc.Route == navigation.RouteLogin && loc.Reason != "" {
		pairs = append(pairs, output.Pair{Key: "Reason", Value: loc.Reason})
	}
	return printer(c).Pairs(pairs)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
