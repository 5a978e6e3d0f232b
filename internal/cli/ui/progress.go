package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Spinner animates a message while a long operation, such as a schema apply, runs
type Spinner struct {
	writer   io.Writer
	frames   []string
	interval time.Duration
	noColor  bool

	mu      sync.Mutex
	message string
	active  bool
	done    chan struct{}
	stopped chan struct{}
}

// SpinnerOptions configures spinner behavior
type SpinnerOptions struct {
	Message  string
	NoColor  bool
	Interval time.Duration // Default: 100ms
}

var defaultFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a new spinner
func NewSpinner(w io.Writer, opts SpinnerOptions) *Spinner {
	interval := opts.Interval
	if interval == 0 {
		interval = 100 * time.Millisecond
	}
	return &Spinner{
		writer:   w,
		message:  opts.Message,
		frames:   defaultFrames,
		interval: interval,
		noColor:  opts.NoColor,
	}
}

// Start begins the animation. Starting a running spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return
	}
	s.active = true
	s.done = make(chan struct{})
	s.stopped = make(chan struct{})
	go s.animate(s.done, s.stopped)
}

// Stop ends the animation and clears the line. The writer is not touched by the
// animation once Stop returns.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	close(s.done)
	stopped := s.stopped
	s.mu.Unlock()

	<-stopped
	fmt.Fprint(s.writer, "\r\033[K")
}

// Success stops the spinner and shows a success message
func (s *Spinner) Success(message string) {
	s.Stop()
	newStyle(s.noColor, color.FgGreen, color.Bold).Fprintf(s.writer, "✓ %s\n", message)
}

// Error stops the spinner and shows an error message
func (s *Spinner) Error(message string) {
	s.Stop()
	newStyle(s.noColor, color.FgRed, color.Bold).Fprintf(s.writer, "❌ %s\n", message)
}

// UpdateMessage changes the spinner message
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

func (s *Spinner) animate(done <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	cyan := newStyle(s.noColor, color.FgCyan)
	frame := 0
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.mu.Lock()
			msg := s.message
			s.mu.Unlock()
			cyan.Fprintf(s.writer, "\r%s %s", s.frames[frame], msg)
			frame = (frame + 1) % len(s.frames)
		}
	}
}

// WithSpinner runs fn while a spinner shows message, then reports the outcome
func WithSpinner(w io.Writer, message string, noColor bool, fn func() error) error {
	spinner := NewSpinner(w, SpinnerOptions{Message: message, NoColor: noColor})
	spinner.Start()

	if err := fn(); err != nil {
		spinner.Error(fmt.Sprintf("%s failed", message))
		return err
	}
	spinner.Success(message)
	return nil
}
