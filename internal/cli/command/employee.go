package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/roster-go/internal/cli/navigation"
	"github.com/yndnr/roster-go/internal/cli/output"
	"github.com/yndnr/roster-go/internal/core/domain"
	"github.com/yndnr/roster-go/internal/core/service"
)

// ErrNotLoggedIn is returned when a guarded view is requested without a
// session.
var ErrNotLoggedIn = errors.New("not logged in, run: roster-cli auth login")

// ErrTrailingArgs is returned when arguments follow the employee ID.
// Flag parsing stops at the first positional argument, so anything after
// the ID would be dropped.
var ErrTrailingArgs = errors.New("flags must come before the employee ID")

// employeeCommand returns the employee subcommand group.
func employeeCommand() *cli.Command {
	return &cli.Command{
		Name:    "employee",
		Aliases: []string{"emp"},
		Usage:   "Manage employees",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List employees",
				Action:  employeeList,
			},
			{
				Name:      "get",
				Usage:     "Show employee details",
				ArgsUsage: "ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "delete",
						Usage: "Delete the employee after showing it",
					},
					forceFlag(),
				},
				Action: employeeGet,
			},
			{
				Name:   "create",
				Usage:  "Create an employee",
				Flags:  employeeFlags(true),
				Action: employeeCreate,
			},
			{
				Name:      "edit",
				Aliases:   []string{"update"},
				Usage:     "Edit an employee",
				ArgsUsage: "ID",
				Flags:     employeeFlags(false),
				Action:    employeeEdit,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete an employee",
				ArgsUsage: "ID",
				Flags:     []cli.Flag{forceFlag()},
				Action:    employeeDelete,
			},
		},
	}
}

func forceFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "force",
		Aliases: []string{"f"},
		Usage:   "Skip confirmation",
	}
}

func employeeFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "first-name", Usage: "First name", Required: required},
		&cli.StringFlag{Name: "last-name", Usage: "Last name", Required: required},
		&cli.StringFlag{Name: "email", Usage: "Email address", Required: required},
		&cli.StringFlag{Name: "salary", Usage: "Salary (e.g., 52000.50)"},
	}
}

// idArg returns the single ID argument.
func idArg(c *cli.Context) (string, error) {
	if c.NArg() > 1 {
		return "", fmt.Errorf("%w: %s", ErrTrailingArgs, strings.Join(c.Args().Tail(), " "))
	}
	return c.Args().First(), nil
}

// open navigates to path and fails when the router sends the user to
// the login view instead.
func open(c *cli.Context, path string) (navigation.Location, error) {
	loc := runtimeFrom(c).Router.Navigate(path)
	if loc.Route == navigation.RouteLogin {
		return loc, ErrNotLoggedIn
	}
	return loc, nil
}

func employeeList(c *cli.Context) error {
	if _, err := open(c, string(navigation.RouteList)); err != nil {
		return err
	}
	return showList(c)
}

func showList(c *cli.Context) error {
	v := runtimeFrom(c).Controller.NewListView()
	defer v.Exit()

	st, err := await(c, "Loading employees", v.Enter, v.Wait)
	if err != nil {
		return err
	}
	return printer(c).Employees(st.Data)
}

func employeeGet(c *cli.Context) error {
	rt := runtimeFrom(c)
	raw, err := idArg(c)
	if err != nil {
		return err
	}
	if _, err := open(c, "employees/"+raw); err != nil {
		return err
	}

	v := rt.Controller.NewDetailView(raw)
	defer v.Exit()

	if _, ok := v.ID(); !ok {
		// Enter redirects to the list without a request.
		v.Enter(c.Context)
		printer(c).Message("Invalid employee id %q, showing all employees.", raw)
		return showList(c)
	}

	st, err := await(c, "Loading employee", v.Enter, v.Wait)
	if err != nil {
		return err
	}
	p := printer(c)
	if err := p.Employee(st.Data); err != nil {
		return err
	}
	if !c.Bool("delete") {
		return nil
	}

	err = v.Delete(c.Context, confirmer(c))
	switch {
	case errors.Is(err, service.ErrDeclined):
		p.Message("Delete cancelled.")
		return nil
	case err != nil:
		return err
	}
	p.Message("Deleted employee %s.", st.Data.FullName())
	return nil
}

func employeeCreate(c *cli.Context) error {
	if _, err := open(c, string(navigation.RouteNew)); err != nil {
		return err
	}

	f := runtimeFrom(c).Controller.NewFormView("")
	defer f.Exit()
	f.Enter(c.Context)

	e, err := applyFlags(c, domain.Employee{})
	if err != nil {
		return err
	}
	return submit(c, f, e)
}

func employeeEdit(c *cli.Context) error {
	rt := runtimeFrom(c)
	raw, err := idArg(c)
	if err != nil {
		return err
	}
	if _, err := open(c, "employees/"+raw+"/edit"); err != nil {
		return err
	}

	f := rt.Controller.NewFormView(raw)
	defer f.Exit()
	if !f.Editing() {
		f.Enter(c.Context)
		printer(c).Message("Invalid employee id %q, showing all employees.", raw)
		return showList(c)
	}

	st, err := await(c, "Loading employee", f.Enter, f.Wait)
	if err != nil {
		return err
	}
	e, err := applyFlags(c, st.Data)
	if err != nil {
		return err
	}
	return submit(c, f, e)
}

func submit(c *cli.Context, f *service.FormView, e domain.Employee) error {
	sp := startSpinner(c, "Saving")
	saved, err := f.Submit(c.Context, e)
	if err != nil {
		sp.Fail("Save failed")
		return err
	}
	sp.Stop()

	p := printer(c)
	if f.Editing() {
		p.Message("Updated employee %s.", idOf(saved))
	} else {
		p.Message("Created employee %s.", idOf(saved))
	}
	if p.Format() != output.FormatTable {
		return p.Employee(saved)
	}
	return nil
}

// applyFlags overrides the fields of e whose flags were given.
func applyFlags(c *cli.Context, e domain.Employee) (domain.Employee, error) {
	if c.IsSet("first-name") {
		e.FirstName = c.String("first-name")
	}
	if c.IsSet("last-name") {
		e.LastName = c.String("last-name")
	}
	if c.IsSet("email") {
		e.Email = c.String("email")
	}
	if c.IsSet("salary") {
		s, err := domain.NewSalary(c.String("salary"))
		if err != nil {
			return e, err
		}
		e.Salary = s
	}
	return e, nil
}

func employeeDelete(c *cli.Context) error {
	raw, err := idArg(c)
	if err != nil {
		return err
	}
	id, ok := domain.ParseID(raw)
	if !ok {
		return fmt.Errorf("invalid employee id %q", raw)
	}
	if _, err := open(c, string(navigation.RouteList)); err != nil {
		return err
	}

	v := runtimeFrom(c).Controller.NewListView()
	defer v.Exit()

	p := printer(c)
	err = v.Delete(c.Context, id, confirmer(c))
	switch {
	case errors.Is(err, service.ErrDeclined):
		p.Message("Delete cancelled.")
		return nil
	case err != nil:
		return err
	}

	// A successful delete reloads the list.
	st := v.Wait(c.Context)
	p.Message("Deleted employee %d.", id)
	if st.Phase == service.PhaseLoaded && p.Format() != output.FormatTable {
		return p.Employees(st.Data)
	}
	return nil
}

func idOf(e domain.Employee) string {
	if !e.HasID() {
		return "-"
	}
	return fmt.Sprint(e.IDValue())
}
