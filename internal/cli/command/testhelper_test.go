package command

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/roster-go/internal/core/domain"
	"github.com/yndnr/roster-go/internal/infra/shutdown"
	"github.com/yndnr/roster-go/internal/telemetry/logger"
	"github.com/yndnr/roster-go/internal/tests/fakeapi"
)

// syncBuffer is a bytes.Buffer safe for the REPL's notifier goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// harness runs one app instance against a fake API. The runtime is
// built on the first run and shared by later ones, as in the shell.
type harness struct {
	t          *testing.T
	api        *fakeapi.API
	app        *cli.App
	out        *syncBuffer
	configPath string
	globals    []string
}

func newHarness(t *testing.T, input string) *harness {
	return newHarnessReader(t, strings.NewReader(input))
}

func newHarnessReader(t *testing.T, in io.Reader) *harness {
	t.Helper()
	api := fakeapi.New()
	base := fakeapi.Start(t, api)
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	sd := shutdown.NewHandler(time.Second, logger.Discard())
	t.Cleanup(func() { sd.Shutdown() })

	out := &syncBuffer{}
	app := New(Options{In: in, Out: out, Err: io.Discard, Shutdown: sd})
	app.ExitErrHandler = func(*cli.Context, error) {}

	return &harness{
		t:          t,
		api:        api,
		app:        app,
		out:        out,
		configPath: configPath,
		globals: []string{
			"--config", configPath,
			"--api-url", base,
			"--storage", "memory",
			"--log-level", "error",
		},
	}
}

// run executes one command line and returns its output.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	h.out.Reset()
	argv := append([]string{"roster-cli"}, h.globals...)
	err := h.app.Run(append(argv, args...))
	return h.out.String(), err
}

// mustRun fails the test when the command fails.
func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	if err != nil {
		h.t.Fatalf("%v: %v", args, err)
	}
	return out
}

func (h *harness) login() {
	h.t.Helper()
	h.mustRun("auth", "login", "-u", fakeapi.DefaultUsername, "-p", fakeapi.DefaultPassword)
}

func (h *harness) seed() (ada, alan domain.Employee) {
	ada = h.api.Seed(domain.Employee{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Salary: domain.MustSalary("52000.50")})
	alan = h.api.Seed(domain.Employee{FirstName: "Alan", LastName: "Turing", Email: "alan@example.com", Salary: domain.MustSalary("61000")})
	return ada, alan
}

func (h *harness) requested(req string) bool {
	for _, r := range h.api.Requests() {
		if r == req {
			return true
		}
	}
	return false
}

func (h *harness) runtime() *Runtime {
	h.t.Helper()
	rt, ok := h.app.Metadata[runtimeKey].(*Runtime)
	if !ok {
		h.t.Fatal("runtime not built")
	}
	return rt
}

// withInput replaces stdin. It must be called before the first run.
func (h *harness) withInput(input string) *harness {
	h.app.Reader = strings.NewReader(input)
	return h
}
