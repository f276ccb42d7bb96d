package gamepad

import "time"

// FrameTicker implements teleop.FrameScheduler with a wall-clock ticker
// approximating the display refresh rate. The cockpit has no render loop to
// borrow a vsync signal from, so the configured rate stands in for it.
type FrameTicker struct {
	ticker *time.Ticker
	frames chan struct{}
	stop   chan struct{}
}

// NewFrameTicker starts a ticker at the given frames per second.
func NewFrameTicker(hz int) *FrameTicker {
	if hz <= 0 {
		hz = 60
	}
	t := &FrameTicker{
		ticker: time.NewTicker(time.Second / time.Duration(hz)),
		frames: make(chan struct{}),
		stop:   make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *FrameTicker) run() {
	defer close(t.frames)
	for {
		select {
		case <-t.ticker.C:
			// Skip the frame if the consumer is mid-tick; the next one
			// is never far away.
			select {
			case t.frames <- struct{}{}:
			default:
			}
		case <-t.stop:
			return
		}
	}
}

// Frames returns the per-frame timing signal.
func (t *FrameTicker) Frames() <-chan struct{} { return t.frames }

// Stop ends the timing signal and closes the frame channel.
func (t *FrameTicker) Stop() {
	t.ticker.Stop()
	close(t.stop)
}
