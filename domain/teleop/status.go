package teleop

import (
	"sync"

	customlog "github.com/open-teleop/cockpit/pkg/log"
	"github.com/open-teleop/cockpit/pkg/transport"
)

// State is one position of the status machine.
type State int

const (
	StateConnecting State = iota
	StateConnected
	StateIdle
	StateActive
	StateError
	StateDisconnected
)

var stateText = map[State]string{
	StateConnecting:   "Connecting",
	StateConnected:    "Connected",
	StateIdle:         "Idle",
	StateActive:       "Active",
	StateError:        "Error",
	StateDisconnected: "Disconnected",
}

var stateColor = map[State]string{
	StateConnecting:   "gray",
	StateConnected:    "green",
	StateIdle:         "blue",
	StateActive:       "green",
	StateError:        "red",
	StateDisconnected: "orange",
}

func (s State) String() string { return stateText[s] }

// Status is the (text, colorHint) pair the UI renders.
type Status struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

func (s State) Status() Status {
	return Status{Text: stateText[s], Color: stateColor[s]}
}

// StatusListener receives both statuses after any transition.
type StatusListener func(link, activity Status)

// StatusReporter tracks two independent statuses: the link status reflecting
// the transport lifecycle, and the command-activity status reflecting whether
// a command stream is currently driven by an input source. Both start at
// Connecting until the first transport event arrives. There is no terminal
// state; the machine is re-enterable for the lifetime of the connection.
type StatusReporter struct {
	mu        sync.Mutex
	link      State
	activity  State
	listeners []StatusListener
	logger    customlog.Logger
}

// NewStatusReporter creates the reporter in the Connecting state.
func NewStatusReporter(logger customlog.Logger) *StatusReporter {
	return &StatusReporter{
		link:     StateConnecting,
		activity: StateConnecting,
		logger:   logger.WithField("component", "status"),
	}
}

// Subscribe registers a listener notified after every transition. Listeners
// run on the caller's goroutine with no lock held.
func (r *StatusReporter) Subscribe(listener StatusListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, listener)
}

// Snapshot returns the current link and activity statuses.
func (r *StatusReporter) Snapshot() (link, activity Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.link.Status(), r.activity.Status()
}

// HandleTransportEvent applies a link lifecycle event. Connect moves the
// link to Connected and the activity to Idle; error and close move both
// statuses together.
func (r *StatusReporter) HandleTransportEvent(event transport.Event) {
	switch event.Type {
	case transport.EventConnected:
		r.transition(StateConnected, StateIdle, event.Detail)
	case transport.EventError:
		r.transition(StateError, StateError, event.Detail)
	case transport.EventClosed:
		r.transition(StateDisconnected, StateDisconnected, event.Detail)
	}
}

// SetActive marks the command stream as driven by the named input source.
func (r *StatusReporter) SetActive(source string) {
	r.setActivity(StateActive, source)
}

// SetIdle marks the command stream as released by the named input source.
func (r *StatusReporter) SetIdle(source string) {
	r.setActivity(StateIdle, source)
}

func (r *StatusReporter) setActivity(state State, source string) {
	r.mu.Lock()
	if r.activity == state {
		r.mu.Unlock()
		return
	}
	r.activity = state
	link, activity := r.link.Status(), r.activity.Status()
	listeners := r.snapshotListeners()
	r.mu.Unlock()

	r.logger.Infof("Command activity: %s (source: %s)", state, source)
	for _, l := range listeners {
		l(link, activity)
	}
}

func (r *StatusReporter) transition(link, activity State, detail string) {
	r.mu.Lock()
	if r.link == link && r.activity == activity {
		r.mu.Unlock()
		return
	}
	r.link = link
	r.activity = activity
	linkStatus, activityStatus := link.Status(), activity.Status()
	listeners := r.snapshotListeners()
	r.mu.Unlock()

	if detail != "" {
		r.logger.Infof("Link status: %s, activity: %s (%s)", link, activity, detail)
	} else {
		r.logger.Infof("Link status: %s, activity: %s", link, activity)
	}
	for _, l := range listeners {
		l(linkStatus, activityStatus)
	}
}

func (r *StatusReporter) snapshotListeners() []StatusListener {
	listeners := make([]StatusListener, len(r.listeners))
	copy(listeners, r.listeners)
	return listeners
}
