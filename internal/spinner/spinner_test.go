package spinner

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer against concurrent writes from the
// animation goroutine.
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

func TestSpinnerLifecycle(t *testing.T) {
	out := &syncBuffer{}
	s := New(context.Background(), out, "analyzing")

	if s.IsActive() {
		t.Error("spinner active before Start")
	}

	s.Start()
	if !s.IsActive() {
		t.Error("spinner inactive after Start")
	}

	time.Sleep(3 * frameDelay)
	s.Stop()

	if s.IsActive() {
		t.Error("spinner active after Stop")
	}
	if !strings.Contains(out.String(), "analyzing") {
		t.Errorf("output %q missing the message", out.String())
	}
}

func TestSpinnerStartTwice(t *testing.T) {
	out := &syncBuffer{}
	s := New(context.Background(), out, "working")

	s.Start()
	s.Start() // second Start must not spawn another animation
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := New(context.Background(), &syncBuffer{}, "idle")
	s.Stop() // must not panic or block
}
