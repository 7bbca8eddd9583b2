package main

import (
	"fmt"
	"os"

	"github.com/yndnr/roster-go/internal/cli/command"
	"github.com/yndnr/roster-go/internal/infra/shutdown"
)

func main() {
	sd := shutdown.NewHandler(shutdown.DefaultTimeout, nil)
	app := command.New(command.Options{Shutdown: sd})

	err := app.RunContext(sd.Context(), os.Args)
	if serr := sd.Shutdown(); serr != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", serr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", command.ErrorMessage(err))
		os.Exit(1)
	}
}
