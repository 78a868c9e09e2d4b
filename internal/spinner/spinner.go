// Package spinner provides a small terminal progress indicator for
// long-running analysis commands.
package spinner

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// frameDelay is the animation interval.
const frameDelay = 100 * time.Millisecond

var frames = []string{"|", "/", "-", "\\"}

// Spinner animates a message on a writer until stopped.
type Spinner struct {
	writer  io.Writer
	message string

	mu     sync.Mutex
	active bool
	cancel context.CancelFunc
	ctx    context.Context
	wg     sync.WaitGroup
}

// New creates a spinner writing message to writer. The spinner stops on its
// own when ctx is cancelled.
func New(ctx context.Context, writer io.Writer, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		writer:  writer,
		message: message,
		ctx:     spinnerCtx,
		cancel:  cancel,
	}
}

// Start begins the animation; calling Start on a running spinner is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return
	}
	s.active = true

	s.wg.Add(1)
	go s.run()
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()

	// full line clear only when attached to a terminal
	if f, isFile := s.writer.(*os.File); isFile && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(s.writer, "\r\033[2K")
	} else {
		fmt.Fprint(s.writer, "\r")
	}
}

// IsActive reports whether the spinner is currently animating.
func (s *Spinner) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Spinner) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(frameDelay)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			fmt.Fprintf(s.writer, "\r%s %s", frames[frame%len(frames)], s.message)
		}
	}
}
