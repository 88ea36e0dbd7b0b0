// spinner.go
package main

import (
	"fmt"
	"io"
	"strings"
	"time"
)

var spinnerFrames = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}

// Spinner animates a one-line busy indicator while the completion call
// blocks. It only makes sense on a TTY; callers skip it in pipe mode.
type Spinner struct {
	frames   []rune
	interval time.Duration
	message  string
	out      io.Writer
	started  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewSpinner(message string, out io.Writer) *Spinner {
	return &Spinner{
		frames:   spinnerFrames,
		interval: 120 * time.Millisecond,
		message:  message,
		out:      out,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (s *Spinner) Start() {
	s.started = true
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		defer close(s.doneCh)

		frame := 0
		for {
			select {
			case <-s.stopCh:
				s.clearLine()
				return
			case <-ticker.C:
				fmt.Fprintf(s.out, "\r%c %s", s.frames[frame], s.message)
				frame = (frame + 1) % len(s.frames)
			}
		}
	}()
}

// Stop halts the animation and waits for the line to be cleared, so later
// output never interleaves with a spinner frame.
func (s *Spinner) Stop() {
	select {
	case <-s.stopCh:
		// Already stopped
		return
	default:
		close(s.stopCh)
	}
	if s.started {
		<-s.doneCh
	}
}

func (s *Spinner) clearLine() {
	// Carriage return, spaces over frame + space + message, carriage return.
	clearLen := len(s.message) + 3
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", clearLen))
}
