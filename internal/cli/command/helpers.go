package command

import (
	"context"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/roster-go/internal/cli/output"
	"github.com/yndnr/roster-go/internal/core/service"
)

// printer returns a printer honoring -o for this invocation and the
// configured format otherwise.
func printer(c *cli.Context) *output.Printer {
	format := runtimeFrom(c).Config.Output.Format
	if c.IsSet("output") {
		format = c.String("output")
	}
	f, err := output.ParseFormat(format)
	if err != nil {
		f = output.FormatTable
	}
	return output.NewPrinter(c.App.Writer, f)
}

// startSpinner animates on a terminal in table mode and is inert
// otherwise.
func startSpinner(c *cli.Context, msg string) *output.Spinner {
	sp := output.NewSpinner(c.App.ErrWriter, msg)
	if printer(c).Format() == output.FormatTable && output.IsTerminal(c.App.ErrWriter) {
		sp.Start()
	}
	return sp
}

// await runs one load cycle of a view and returns its terminal state.
// A Failed state is returned together with its error.
func await[T any](c *cli.Context, msg string, enter func(context.Context), wait func(context.Context) service.State[T]) (service.State[T], error) {
	sp := startSpinner(c, msg)
	enter(c.Context)
	st := wait(c.Context)
	sp.Stop()

	if st.Phase == service.PhaseFailed && st.Err != nil {
		return st, st.Err
	}
	if err := c.Context.Err(); err != nil && !st.Phase.Terminal() {
		return st, err
	}
	return st, nil
}

// confirmer asks on the runtime's prompter unless --force is set.
func confirmer(c *cli.Context) service.Confirmer {
	if c.Bool("force") {
		return service.AlwaysConfirm
	}
	rt := runtimeFrom(c)
	return service.ConfirmFunc(func(prompt string) bool {
		answer, err := rt.Prompter.Ask(prompt + " [y/N] ")
		if err != nil {
			return false
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true
		}
		return false
	})
}
