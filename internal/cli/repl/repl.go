package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/yndnr/roster-go/internal/telemetry/logger"
)

var builtins = []string{"exit", "help", "history", "quit"}

// Executor runs one parsed command line.
type Executor func(ctx context.Context, args []string) error

// Config wires a REPL.
type Config struct {
	In        io.Reader
	Out       io.Writer
	Prompt    func() string
	Exec      Executor
	History   *History
	Completer *Completer
	Logger    *slog.Logger
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	in        io.Reader
	prompt    func() string
	exec      Executor
	history   *History
	completer *Completer
	logger    *slog.Logger

	mu  sync.Mutex // serializes writes to out
	out io.Writer

	lines   chan string
	eof     chan struct{}
	readErr error
	start   sync.Once
}

// New creates a REPL.
func New(cfg Config) *REPL {
	r := &REPL{
		in:        cfg.In,
		out:       cfg.Out,
		prompt:    cfg.Prompt,
		exec:      cfg.Exec,
		history:   cfg.History,
		completer: cfg.Completer,
		logger:    logger.OrDefault(cfg.Logger),
		lines:     make(chan string),
		eof:       make(chan struct{}),
	}
	if r.prompt == nil {
		r.prompt = func() string { return "roster> " }
	}
	if r.history == nil {
		r.history = NewHistory("", 0)
	}
	if r.completer == nil {
		r.completer = NewCompleter()
	}
	return r
}

// Notify prints a line between prompts. Safe from any goroutine.
func (r *REPL) Notify(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "\n%s\n", msg)
}

// Run reads lines until exit, EOF or ctx is done. History is saved on
// return.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.history.Load(); err != nil {
		r.logger.Warn("history not loaded", "error", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			r.logger.Warn("history not saved", "error", err)
		}
	}()

	r.startReader()

	for {
		r.write(r.prompt())
		var line string
		select {
		case <-ctx.Done():
			r.write("\n")
			return nil
		case <-r.eof:
			r.write("\n")
			return r.readErr
		case line = <-r.lines:
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch line {
		case "exit", "quit":
			return nil
		case "help":
			r.write(strings.Join(r.completer.Complete(""), "\n") + "\n")
			continue
		case "history":
			for i, e := range r.history.Entries() {
				r.write(fmt.Sprintf("%4d  %s\n", i+1, e))
			}
			continue
		}

		args, err := Split(line)
		if err != nil {
			r.write(fmt.Sprintf("error: %v\n", err))
			continue
		}
		if len(args) == 0 || args[0] == "" {
			continue
		}
		r.history.Add(line)

		if !r.completer.Known(args[0]) {
			msg := fmt.Sprintf("unknown command %q", args[0])
			if s := r.completer.Complete(args[0][:1]); len(s) > 0 {
				msg += ", try: " + strings.Join(s, ", ")
			}
			r.write(msg + "\n")
			continue
		}
		if err := r.exec(ctx, args); err != nil {
			r.write(fmt.Sprintf("error: %v\n", err))
		}
	}
}

// ErrInputClosed is returned by Ask when input ends before an answer.
var ErrInputClosed = errors.New("input closed")

// Ask prints question and returns the next input line. Commands run by
// the REPL use it for confirmations so they share the REPL's input.
func (r *REPL) Ask(question string) (string, error) {
	r.startReader()
	r.write(question)
	select {
	case line := <-r.lines:
		return strings.TrimSpace(line), nil
	case <-r.eof:
		return "", ErrInputClosed
	}
}

func (r *REPL) startReader() {
	r.start.Do(func() {
		go func() {
			defer close(r.eof)
			sc := bufio.NewScanner(r.in)
			for sc.Scan() {
				r.lines <- sc.Text()
			}
			r.readErr = sc.Err()
		}()
	})
}

func (r *REPL) write(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	io.WriteString(r.out, s)
}

// ErrUnterminatedQuote is returned by Split for an open quote.
var ErrUnterminatedQuote = errors.New("unterminated quote")

// Split breaks a line into arguments. Single and double quotes group
// words; a backslash escapes the next character outside single quotes.
func Split(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		quote   rune
		escaped bool
		inArg   bool
	)
	for _, c := range line {
		switch {
		case escaped:
			cur.WriteRune(c)
			escaped = false
		case c == '\\' && quote != '\'':
			escaped = true
			inArg = true
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				cur.WriteRune(c)
			}
		case c == '"' || c == '\'':
			quote = c
			inArg = true
		case c == ' ' || c == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(c)
			inArg = true
		}
	}
	if quote != 0 || escaped {
		return nil, ErrUnterminatedQuote
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
