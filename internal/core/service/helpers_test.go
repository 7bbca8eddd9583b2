package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/roster-go/internal/core/domain"
	"github.com/yndnr/roster-go/internal/telemetry/logger"
)

// statusErr stands in for the HTTP layer's status error.
type statusErr int

func (e statusErr) Error() string   { return fmt.Sprintf("http status %d", int(e)) }
func (e statusErr) HTTPStatus() int { return int(e) }

// memStore is a minimal TokenStore.
type memStore struct {
	mu    sync.Mutex
	token string
	set   bool
}

func (s *memStore) Save(t string) { s.mu.Lock(); s.token, s.set = t, true; s.mu.Unlock() }
func (s *memStore) Clear()        { s.mu.Lock(); s.token, s.set = "", false; s.mu.Unlock() }
func (s *memStore) Read() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.set
}

// fakeAuth answers Login with a fixed result.
type fakeAuth struct {
	cred  domain.Credential
	err   error
	calls int
}

func (f *fakeAuth) Login(ctx context.Context, req domain.LoginRequest) (domain.Credential, error) {
	f.calls++
	return f.cred, f.err
}

// fakeEmployees is an in-memory EmployeeAPI. Hooks, when set, replace
// the default behavior of a call.
type fakeEmployees struct {
	mu     sync.Mutex
	rows   map[int64]domain.Employee
	nextID int64
	calls  map[string]int

	listHook   func(ctx context.Context) ([]domain.Employee, error)
	getHook    func(ctx context.Context, id int64) (domain.Employee, error)
	createHook func(ctx context.Context, e domain.Employee) (domain.Employee, error)
	updateHook func(ctx context.Context, id int64, e domain.Employee) (domain.Employee, error)
	deleteErr  error
}

func newFakeEmployees(rows ...domain.Employee) *fakeEmployees {
	f := &fakeEmployees{rows: make(map[int64]domain.Employee), calls: make(map[string]int)}
	for _, e := range rows {
		f.nextID++
		f.rows[f.nextID] = e.WithID(f.nextID)
	}
	return f
}

func (f *fakeEmployees) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeEmployees) record(op string) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
}

func (f *fakeEmployees) List(ctx context.Context) ([]domain.Employee, error) {
	f.record("list")
	if f.listHook != nil {
		return f.listHook(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int64, 0, len(f.rows))
	for id := range f.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]domain.Employee, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.rows[id])
	}
	return out, nil
}

func (f *fakeEmployees) Get(ctx context.Context, id int64) (domain.Employee, error) {
	f.record("get")
	if f.getHook != nil {
		return f.getHook(ctx, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.rows[id]
	if !ok {
		return domain.Employee{}, statusErr(404)
	}
	return e, nil
}

func (f *fakeEmployees) Create(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	f.record("create")
	if f.createHook != nil {
		return f.createHook(ctx, e)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	saved := e.WithID(f.nextID)
	f.rows[f.nextID] = saved
	return saved, nil
}

func (f *fakeEmployees) Update(ctx context.Context, id int64, e domain.Employee) (domain.Employee, error) {
	f.record("update")
	if f.updateHook != nil {
		return f.updateHook(ctx, id, e)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return domain.Employee{}, statusErr(404)
	}
	f.rows[id] = e.WithID(id)
	return f.rows[id], nil
}

func (f *fakeEmployees) Delete(ctx context.Context, id int64) error {
	f.record("delete")
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

// recordingNav counts redirects to the list.
type recordingNav struct {
	mu    sync.Mutex
	lists int
}

func (n *recordingNav) ToList() { n.mu.Lock(); n.lists++; n.mu.Unlock() }
func (n *recordingNav) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lists
}

// countingObserver records stale results.
type countingObserver struct {
	mu          sync.Mutex
	stale       int
	transitions []string
}

func (o *countingObserver) ViewTransition(view, phase string) {
	o.mu.Lock()
	o.transitions = append(o.transitions, view+":"+phase)
	o.mu.Unlock()
}

func (o *countingObserver) StaleResult(string) {
	o.mu.Lock()
	o.stale++
	o.mu.Unlock()
}

func (o *countingObserver) staleCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stale
}

func newTestController(api EmployeeAPI, nav Navigator, timeout time.Duration) *Controller {
	return NewController(api, nav, ControllerConfig{ViewTimeout: timeout, Logger: logger.Discard()})
}

func ada() domain.Employee {
	return domain.Employee{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Salary:    domain.MustSalary("52000.50"),
	}
}

func grace() domain.Employee {
	return domain.Employee{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		Salary:    domain.MustSalary("61000"),
	}
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// eventually polls cond until it holds or a second passes.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}
