package teleop

import (
	"sync"
	"testing"
	"time"

	wirefb "github.com/open-teleop/cockpit/pkg/flatbuffers/cockpit/wire"
	customlog "github.com/open-teleop/cockpit/pkg/log"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeTransport records published payloads in order.
type fakeTransport struct {
	mu        sync.Mutex
	connected bool
	channels  []string
	payloads  [][]byte
}

func (f *fakeTransport) Publish(channel string, _ wirefb.ContentType, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	buf := make([]byte, len(payload))
	copy(buf, payload)
	f.channels = append(f.channels, channel)
	f.payloads = append(f.payloads, buf)
	return nil
}

func (f *fakeTransport) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeTransport) setConnected(connected bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = connected
}

func (f *fakeTransport) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

func (f *fakeTransport) last(t *testing.T) Command {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.payloads) == 0 {
		t.Fatal("No command was published")
	}
	var cmd Command
	if err := json.Unmarshal(f.payloads[len(f.payloads)-1], &cmd); err != nil {
		t.Fatalf("Failed to unmarshal published command: %v", err)
	}
	return cmd
}

// fakeAxisReader serves a settable axis snapshot.
type fakeAxisReader struct {
	mu      sync.Mutex
	axes    []float64
	present bool
}

func (r *fakeAxisReader) ReadAxes(int) ([]float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.present {
		return nil, false
	}
	axes := make([]float64, len(r.axes))
	copy(axes, r.axes)
	return axes, true
}

func (r *fakeAxisReader) set(axes []float64, present bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.axes = axes
	r.present = present
}

// manualFrames is a frame scheduler driven by the test.
type manualFrames struct {
	ch chan struct{}
}

func newManualFrames() *manualFrames {
	return &manualFrames{ch: make(chan struct{})}
}

func (f *manualFrames) Frames() <-chan struct{} { return f.ch }

// testPipeline bundles the pieces most tests need.
type testPipeline struct {
	transport   *fakeTransport
	clock       *fakeClock
	publisher   *CommandPublisher
	status      *StatusReporter
	multipliers *Multipliers
}

func newTestPipeline() *testPipeline {
	logger := customlog.NewNopLogger()
	transport := &fakeTransport{connected: true}
	clock := newFakeClock()
	return &testPipeline{
		transport:   transport,
		clock:       clock,
		publisher:   NewCommandPublisher(transport, "teleop.control.velocity", clock, logger),
		status:      NewStatusReporter(logger),
		multipliers: NewMultipliers(1.0, 1.0, 2.0, 3.0),
	}
}

// waitFor polls until cond is true or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("Timed out waiting for: %s", msg)
}
