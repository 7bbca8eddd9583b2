package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/yndnr/roster-go/internal/core/domain"
	"github.com/yndnr/roster-go/internal/telemetry/logger"
)

// DefaultViewTimeout bounds how long a view waits in Loading.
const DefaultViewTimeout = 10 * time.Second

// DeletePrompt is the question asked before every delete.
const DeletePrompt = "Are you sure you want to delete this employee?"

var (
	// ErrSubmitInProgress is returned by FormView.Submit while an earlier
	// submission has not completed. No request is made.
	ErrSubmitInProgress = errors.New("service: submission already in progress")

	// ErrDeclined is returned when the user declines a confirmation.
	ErrDeclined = errors.New("service: confirmation declined")

	// ErrInvalidID is returned by operations on a view opened with an
	// unusable employee id.
	ErrInvalidID = errors.New("service: invalid employee id")
)

// EmployeeAPI is the resource client the views drive.
type EmployeeAPI interface {
	List(ctx context.Context) ([]domain.Employee, error)
	Get(ctx context.Context, id int64) (domain.Employee, error)
	Create(ctx context.Context, e domain.Employee) (domain.Employee, error)
	Update(ctx context.Context, id int64, e domain.Employee) (domain.Employee, error)
	Delete(ctx context.Context, id int64) error
}

// Navigator moves the front end to the list view.
type Navigator interface {
	ToList()
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// AlwaysConfirm accepts every prompt.
var AlwaysConfirm Confirmer = ConfirmFunc(func(string) bool { return true })

type nopNavigator struct{}

func (nopNavigator) ToList() {}

// ControllerConfig configures a Controller.
type ControllerConfig struct {
	// ViewTimeout bounds Loading and each mutation (default 10s).
	ViewTimeout time.Duration

	Logger   *slog.Logger
	Observer Observer
}

// Controller creates view instances over one EmployeeAPI.
type Controller struct {
	api      EmployeeAPI
	nav      Navigator
	timeout  time.Duration
	logger   *slog.Logger
	observer Observer
}

// NewController creates a Controller. A nil navigator ignores redirects.
func NewController(api EmployeeAPI, nav Navigator, cfg ControllerConfig) *Controller {
	if nav == nil {
		nav = nopNavigator{}
	}
	if cfg.ViewTimeout <= 0 {
		cfg.ViewTimeout = DefaultViewTimeout
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	return &Controller{
		api:      api,
		nav:      nav,
		timeout:  cfg.ViewTimeout,
		logger:   logger.OrDefault(cfg.Logger).With("component", "controller"),
		observer: cfg.Observer,
	}
}

// ListView shows every employee.
type ListView struct {
	*view[[]domain.Employee]
	c *Controller
}

// NewListView returns an idle list view.
func (c *Controller) NewListView() *ListView {
	return &ListView{
		view: newView("list", domain.OpList, c, c.api.List),
		c:    c,
	}
}

// Enter starts loading the list.
func (l *ListView) Enter(ctx context.Context) { l.begin(ctx) }

// Reload abandons any in-flight load and starts a new one.
func (l *ListView) Reload(ctx context.Context) { l.begin(ctx) }

// Delete removes employee id after confirmation. Success reloads the
// list. Failure moves the view to Failed with an OpDelete error and
// keeps the loaded rows in Data.
func (l *ListView) Delete(ctx context.Context, id int64, confirm Confirmer) error {
	if !confirmed(confirm) {
		return ErrDeclined
	}
	if err := l.c.remove(ctx, id); err != nil {
		l.fail(err)
		return err
	}
	l.begin(ctx)
	return nil
}

// DetailView shows one employee.
type DetailView struct {
	*view[domain.Employee]
	c     *Controller
	id    int64
	valid bool
}

// NewDetailView returns an idle detail view for rawID.
func (c *Controller) NewDetailView(rawID string) *DetailView {
	id, ok := domain.ParseID(rawID)
	d := &DetailView{c: c, id: id, valid: ok}
	d.view = newView("detail", domain.OpGet, c, func(ctx context.Context) (domain.Employee, error) {
		return c.api.Get(ctx, id)
	})
	return d
}

// ID returns the employee id and whether it was valid.
func (d *DetailView) ID() (int64, bool) { return d.id, d.valid }

// Enter loads the employee, or redirects to the list without a request
// when the id is unusable.
func (d *DetailView) Enter(ctx context.Context) {
	if !d.valid {
		d.logger.Debug("invalid id, redirecting to list")
		d.c.nav.ToList()
		return
	}
	d.begin(ctx)
}

// Reload is Enter for an already entered view.
func (d *DetailView) Reload(ctx context.Context) { d.Enter(ctx) }

// Delete removes the shown employee after confirmation and returns to
// the list. On failure the employee stays in Data.
func (d *DetailView) Delete(ctx context.Context, confirm Confirmer) error {
	if !d.valid {
		return ErrInvalidID
	}
	if !confirmed(confirm) {
		return ErrDeclined
	}
	if err := d.c.remove(ctx, d.id); err != nil {
		d.fail(err)
		return err
	}
	d.c.nav.ToList()
	return nil
}

// FormView creates a new employee or edits an existing one.
type FormView struct {
	*view[domain.Employee]
	c       *Controller
	id      int64
	edit    bool
	invalid bool

	submitMu   sync.Mutex
	submitting bool
	submitErr  *domain.Error
}

// NewFormView returns a form. An empty rawID opens a create form; any
// other value must be a valid id and opens an edit form.
func (c *Controller) NewFormView(rawID string) *FormView {
	f := &FormView{c: c}
	if rawID != "" {
		id, ok := domain.ParseID(rawID)
		f.id, f.edit, f.invalid = id, ok, !ok
	}
	f.view = newView("form", domain.OpGet, c, func(ctx context.Context) (domain.Employee, error) {
		return c.api.Get(ctx, f.id)
	})
	return f
}

// Editing reports whether the form edits an existing employee.
func (f *FormView) Editing() bool { return f.edit }

// Enter prepares the form. Edit forms load the current record; create
// forms become Loaded with an empty employee; invalid ids redirect.
func (f *FormView) Enter(ctx context.Context) {
	switch {
	case f.invalid:
		f.logger.Debug("invalid id, redirecting to list")
		f.c.nav.ToList()
	case f.edit:
		f.begin(ctx)
	default:
		f.settle(domain.Employee{})
	}
}

// Reload is Enter for an already entered view.
func (f *FormView) Reload(ctx context.Context) { f.Enter(ctx) }

// Submitting reports whether a submission is in flight.
func (f *FormView) Submitting() bool {
	f.submitMu.Lock()
	defer f.submitMu.Unlock()
	return f.submitting
}

// SubmitError returns the error of the last failed submission, or nil.
func (f *FormView) SubmitError() *domain.Error {
	f.submitMu.Lock()
	defer f.submitMu.Unlock()
	return f.submitErr
}

// Submit validates e and creates or updates it. While a submission is
// in flight further calls return ErrSubmitInProgress. On success the
// form navigates to the list.
func (f *FormView) Submit(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	if f.invalid {
		return domain.Employee{}, ErrInvalidID
	}

	f.submitMu.Lock()
	if f.submitting {
		f.submitMu.Unlock()
		f.logger.Debug("submit ignored, already submitting")
		return domain.Employee{}, ErrSubmitInProgress
	}
	f.submitting = true
	f.submitErr = nil
	f.submitMu.Unlock()

	saved, derr := f.save(ctx, e)

	f.submitMu.Lock()
	f.submitting = false
	f.submitErr = derr
	f.submitMu.Unlock()

	if derr != nil {
		return domain.Employee{}, derr
	}
	f.c.nav.ToList()
	return saved, nil
}

func (f *FormView) save(ctx context.Context, e domain.Employee) (domain.Employee, *domain.Error) {
	op := domain.OpCreate
	if f.edit {
		op = domain.OpUpdate
	}
	if err := e.Validate(); err != nil {
		return domain.Employee{}, classify(err, op)
	}

	ctx, cancel := context.WithTimeout(ctx, f.c.timeout)
	defer cancel()

	var (
		saved domain.Employee
		err   error
	)
	if f.edit {
		saved, err = f.c.api.Update(ctx, f.id, e.WithID(f.id))
	} else {
		saved, err = f.c.api.Create(ctx, e.WithoutID())
	}
	if err != nil {
		derr := classify(err, op)
		f.logger.Info("submit failed", "op", op, "kind", derr.Kind, "error", err)
		return domain.Employee{}, derr
	}
	f.logger.Debug("submitted", "op", op, "id", saved.IDValue())
	return saved, nil
}

// remove runs one delete call bounded by the view timeout.
func (c *Controller) remove(ctx context.Context, id int64) *domain.Error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.api.Delete(ctx, id); err != nil {
		derr := classify(err, domain.OpDelete)
		c.logger.Info("delete failed", "id", id, "kind", derr.Kind, "error", err)
		return derr
	}
	c.logger.Debug("deleted", "id", id)
	return nil
}

func confirmed(c Confirmer) bool {
	return c != nil && c.Confirm(DeletePrompt)
}
