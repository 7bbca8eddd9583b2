package repl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/roster-go/internal/telemetry/logger"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]string
	err   error
}

func (r *recorder) exec(_ context.Context, args []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, args)
	return r.err
}

func newTestREPL(input string, rec *recorder, out io.Writer) *REPL {
	return New(Config{
		In:        strings.NewReader(input),
		Out:       out,
		Exec:      rec.exec,
		Completer: NewCompleter("employee list", "employee get", "auth login"),
		Logger:    logger.Discard(),
	})
}

func TestREPL_Exit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exit command", "exit\n"},
		{"quit command", "quit\n"},
		{"EOF", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			if err := newTestREPL(tt.input, rec, &bytes.Buffer{}).Run(context.Background()); err != nil {
				t.Errorf("Run() error = %v", err)
			}
			if len(rec.calls) != 0 {
				t.Errorf("executor called: %v", rec.calls)
			}
		})
	}
}

func TestREPL_DispatchesLines(t *testing.T) {
	rec := &recorder{}
	var out bytes.Buffer
	r := newTestREPL("\n  employee list  \nemployee get 7 -o json\nexit\nemployee list\n", rec, &out)

	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"employee", "list"}, {"employee", "get", "7", "-o", "json"}}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}
	if got := strings.Count(out.String(), "roster> "); got != 4 {
		t.Errorf("prompts = %d, want 4", got)
	}
}

func TestREPL_ReportsErrorsAndContinues(t *testing.T) {
	rec := &recorder{err: errors.New("Unable to load employees.")}
	var out bytes.Buffer
	r := newTestREPL("employee list\nemployee list\n", rec, &out)
	r.Run(context.Background())

	if len(rec.calls) != 2 {
		t.Errorf("calls = %d, want 2", len(rec.calls))
	}
	if strings.Count(out.String(), "error: Unable to load employees.") != 2 {
		t.Errorf("output = %q", out.String())
	}
}

func TestREPL_UnknownCommand(t *testing.T) {
	rec := &recorder{}
	var out bytes.Buffer
	newTestREPL("emplyee list\n\"\"\n", rec, &out).Run(context.Background())

	if len(rec.calls) != 0 {
		t.Errorf("unknown command dispatched: %v", rec.calls)
	}
	if !strings.Contains(out.String(), `unknown command "emplyee", try: employee get, employee list, exit`) {
		t.Errorf("output = %q", out.String())
	}
}

func TestREPL_Builtins(t *testing.T) {
	rec := &recorder{}
	var out bytes.Buffer
	newTestREPL("employee list\nhistory\nhelp\n", rec, &out).Run(context.Background())

	s := out.String()
	if !strings.Contains(s, "   1  employee list") {
		t.Errorf("history output missing: %q", s)
	}
	if !strings.Contains(s, "auth login\nemployee get") {
		t.Errorf("help output missing: %q", s)
	}
}

func TestREPL_StopsOnContext(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	r := New(Config{In: pr, Out: io.Discard, Exec: (&recorder{}).exec, Logger: logger.Discard()})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}

func TestREPL_SavesHistory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "history")
	rec := &recorder{}
	r := New(Config{
		In:        strings.NewReader("employee list\nauth login --username alice --password secret\n"),
		Out:       io.Discard,
		Exec:      rec.exec,
		History:   NewHistory(file, 10),
		Completer: NewCompleter("employee list", "auth login"),
		Logger:    logger.Discard(),
	})
	r.Run(context.Background())

	h := NewHistory(file, 10)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}
	if got := h.Entries(); !reflect.DeepEqual(got, []string{"employee list"}) {
		t.Errorf("persisted = %v, want password line dropped", got)
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{"employee list", []string{"employee", "list"}, false},
		{`employee create --first-name "Mary Ann" --last-name O\'Neil`, []string{"employee", "create", "--first-name", "Mary Ann", "--last-name", "O'Neil"}, false},
		{`config set client.api_url 'http://a b/api'`, []string{"config", "set", "client.api_url", "http://a b/api"}, false},
		{`x ""`, []string{"x", ""}, false},
		{`x "open`, nil, true},
	}
	for _, tt := range tests {
		got, err := Split(tt.line)
		if (err != nil) != tt.wantErr {
			t.Errorf("Split(%q) error = %v", tt.line, err)
			continue
		}
		if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Split(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestNotify(t *testing.T) {
	var out bytes.Buffer
	r := New(Config{Out: &out})
	r.Notify("Session expired. Please login again.")
	if out.String() != "\nSession expired. Please login again.\n" {
		t.Errorf("Notify wrote %q", out.String())
	}
}

func TestREPL_AskSharesInput(t *testing.T) {
	var (
		out     bytes.Buffer
		answers []string
		r       *REPL
	)
	r = New(Config{
		In:  strings.NewReader("employee get 7\nyes\nemployee list\n"),
		Out: &out,
		Exec: func(_ context.Context, args []string) error {
			if args[1] != "get" {
				return nil
			}
			a, err := r.Ask("Sure? ")
			answers = append(answers, a)
			return err
		},
		Completer: NewCompleter("employee list", "employee get"),
		Logger:    logger.Discard(),
	})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !reflect.DeepEqual(answers, []string{"yes"}) {
		t.Errorf("answers = %v", answers)
	}
	if strings.Contains(out.String(), `unknown command "yes"`) {
		t.Errorf("answer was dispatched as a command:\n%s", out.String())
	}
	if got := r.history.Entries(); !reflect.DeepEqual(got, []string{"employee get 7", "employee list"}) {
		t.Error("line after the answer was not read as a command")
	}
}

func TestREPL_AskAfterEOF(t *testing.T) {
	r := New(Config{In: strings.NewReader(""), Out: io.Discard})
	if _, err := r.Ask("Sure? "); !errors.Is(err, ErrInputClosed) {
		t.Errorf("Ask() error = %v, want ErrInputClosed", err)
	}
}
