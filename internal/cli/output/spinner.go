package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SpinnerInterval is the frame period.
const SpinnerInterval = 100 * time.Millisecond

// Spinner displays a progress animation until stopped.
type Spinner struct {
	w        io.Writer
	message  string
	interval time.Duration

	mu      sync.Mutex
	started bool
	once    sync.Once
	done    chan struct{}
	exited  chan struct{}
}

// NewSpinner creates a spinner. It draws nothing until Start.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:        w,
		message:  message,
		interval: SpinnerInterval,
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
	}
}

// Start begins the animation in a goroutine.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	go func() {
		defer close(s.exited)
		t := time.NewTicker(s.interval)
		defer t.Stop()
		for i := 0; ; i++ {
			fmt.Fprintf(s.w, "\r%s %s", frames[i%len(frames)], s.message)
			select {
			case <-s.done:
				return
			case <-t.C:
			}
		}
	}()
}

// Stop ends the animation and clears the line. It is safe to call more
// than once and without Start.
func (s *Spinner) Stop() {
	s.halt("\r\033[K")
}

// Success stops with a check mark.
func (s *Spinner) Success(message string) {
	s.halt(fmt.Sprintf("\r\033[K✓ %s\n", message))
}

// Fail stops with a cross.
func (s *Spinner) Fail(message string) {
	s.halt(fmt.Sprintf("\r\033[K✗ %s\n", message))
}

func (s *Spinner) halt(final string) {
	s.once.Do(func() {
		close(s.done)
		s.mu.Lock()
		started := s.started
		s.started = true // a later Start must not draw
		s.mu.Unlock()
		if started {
			<-s.exited
			fmt.Fprint(s.w, final)
		}
	})
}

// IsTerminal reports whether w is a character device.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
