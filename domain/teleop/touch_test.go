package teleop

import (
	"math"
	"testing"
	"time"

	customlog "github.com/open-teleop/cockpit/pkg/log"
)

func newTouch(p *testPipeline) *TouchSource {
	return NewTouchSource(p.publisher, p.status, p.multipliers, 30*time.Millisecond, p.clock, customlog.NewNopLogger())
}

func ptr(v float64) *float64 { return &v }

func TestTouchMoveEmitsEasedCommand(t *testing.T) {
	p := newTestPipeline()
	touch := newTouch(p)

	// Full forward deflection: ease(100) = 1.
	touch.HandleMove(TouchSample{X: ptr(0), Y: ptr(100)})

	if p.transport.count() != 1 {
		t.Fatalf("Expected 1 published command, got %d", p.transport.count())
	}
	cmd := p.transport.last(t)
	if cmd.Twist.Linear.X != 1.0 {
		t.Errorf("Expected linear 1.0, got %v", cmd.Twist.Linear.X)
	}
	if cmd.Twist.Angular.Z != 0 {
		t.Errorf("Expected angular 0, got %v", cmd.Twist.Angular.Z)
	}

	_, activity := p.status.Snapshot()
	if activity.Text != "Active" {
		t.Errorf("Expected Active status, got %s", activity.Text)
	}
}

// Half deflection to the right with angularMul 1.0 gives angular
// -sign(0.5)*0.25 = -0.25: pushing right turns clockwise.
func TestTouchScenarioHalfRight(t *testing.T) {
	p := newTestPipeline()
	touch := newTouch(p)

	touch.HandleMove(TouchSample{X: ptr(50), Y: ptr(0)})

	cmd := p.transport.last(t)
	if cmd.Twist.Linear.X != 0 {
		t.Errorf("Expected linear 0, got %v", cmd.Twist.Linear.X)
	}
	if math.Abs(cmd.Twist.Angular.Z-(-0.25)) > 1e-12 {
		t.Errorf("Expected angular -0.25, got %v", cmd.Twist.Angular.Z)
	}
}

func TestTouchThrottleRejectsFastEvents(t *testing.T) {
	p := newTestPipeline()
	touch := newTouch(p)

	touch.HandleMove(TouchSample{X: ptr(50), Y: ptr(50)})
	p.clock.Advance(10 * time.Millisecond)
	touch.HandleMove(TouchSample{X: ptr(60), Y: ptr(60)})

	if p.transport.count() != 1 {
		t.Errorf("Expected second event throttled, got %d commands", p.transport.count())
	}

	// 40ms since the accepted event: next one passes.
	p.clock.Advance(30 * time.Millisecond)
	touch.HandleMove(TouchSample{X: ptr(70), Y: ptr(70)})
	if p.transport.count() != 2 {
		t.Errorf("Expected third event accepted, got %d commands", p.transport.count())
	}
}

func TestTouchThrottleNotResetByRejectedEvents(t *testing.T) {
	p := newTestPipeline()
	touch := newTouch(p)

	touch.HandleMove(TouchSample{X: ptr(50), Y: ptr(50)})

	// Rejected events must not push the window forward.
	for i := 0; i < 5; i++ {
		p.clock.Advance(5 * time.Millisecond)
		touch.HandleMove(TouchSample{X: ptr(50), Y: ptr(50)})
	}
	// 25ms elapsed in total, still inside the window.
	if p.transport.count() != 1 {
		t.Fatalf("Expected rejected events to stay rejected, got %d commands", p.transport.count())
	}

	p.clock.Advance(5 * time.Millisecond)
	touch.HandleMove(TouchSample{X: ptr(50), Y: ptr(50)})
	if p.transport.count() != 2 {
		t.Errorf("Expected event at 30ms accepted, got %d commands", p.transport.count())
	}
}

func TestTouchDropsNilAxes(t *testing.T) {
	p := newTestPipeline()
	touch := newTouch(p)

	touch.HandleMove(TouchSample{X: nil, Y: ptr(100)})
	touch.HandleMove(TouchSample{X: ptr(100), Y: nil})
	touch.HandleMove(TouchSample{})

	if p.transport.count() != 0 {
		t.Errorf("Expected nil-axis samples dropped, got %d commands", p.transport.count())
	}

	// A dropped sample must not consume the throttle slot.
	touch.HandleMove(TouchSample{X: ptr(100), Y: ptr(100)})
	if p.transport.count() != 1 {
		t.Errorf("Expected valid sample accepted immediately, got %d commands", p.transport.count())
	}
}

func TestTouchMagnitudeGate(t *testing.T) {
	p := newTestPipeline()
	touch := newTouch(p)

	// ease(10) = 0.01 on both axes: at the threshold, treated as noise.
	touch.HandleMove(TouchSample{X: ptr(10), Y: ptr(10)})

	if p.transport.count() != 0 {
		t.Errorf("Expected near-neutral sample dropped, got %d commands", p.transport.count())
	}
	_, activity := p.status.Snapshot()
	if activity.Text == "Active" {
		t.Error("Near-neutral sample must not transition status to Active")
	}

	// The gated sample was accepted at the throttle, so it consumed the slot.
	p.clock.Advance(10 * time.Millisecond)
	touch.HandleMove(TouchSample{X: ptr(100), Y: ptr(100)})
	if p.transport.count() != 0 {
		t.Errorf("Expected follow-up inside throttle window rejected, got %d commands", p.transport.count())
	}
}

func TestTouchReleaseAlwaysEmitsZero(t *testing.T) {
	p := newTestPipeline()
	touch := newTouch(p)

	touch.HandleMove(TouchSample{X: ptr(80), Y: ptr(80)})
	// Release fires immediately after: the throttle does not apply.
	touch.HandleRelease()

	if p.transport.count() != 2 {
		t.Fatalf("Expected release to bypass throttle, got %d commands", p.transport.count())
	}
	cmd := p.transport.last(t)
	if cmd.Twist.Linear.X != 0 || cmd.Twist.Angular.Z != 0 {
		t.Errorf("Expected zero command on release, got linear=%v angular=%v",
			cmd.Twist.Linear.X, cmd.Twist.Angular.Z)
	}

	_, activity := p.status.Snapshot()
	if activity.Text != "Idle" {
		t.Errorf("Expected Idle status after release, got %s", activity.Text)
	}

	// Release with no prior movement still emits.
	touch.HandleRelease()
	if p.transport.count() != 3 {
		t.Errorf("Expected release without prior motion to emit, got %d commands", p.transport.count())
	}
}

func TestTouchAppliesMultipliers(t *testing.T) {
	p := newTestPipeline()
	p.multipliers.Set(0.5, 2.0)
	touch := newTouch(p)

	touch.HandleMove(TouchSample{X: ptr(-100), Y: ptr(100)})

	cmd := p.transport.last(t)
	if cmd.Twist.Linear.X != 0.5 {
		t.Errorf("Expected linear 0.5, got %v", cmd.Twist.Linear.X)
	}
	if cmd.Twist.Angular.Z != 2.0 {
		t.Errorf("Expected angular 2.0, got %v", cmd.Twist.Angular.Z)
	}
}
