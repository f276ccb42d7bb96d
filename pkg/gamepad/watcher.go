package gamepad

import (
	"sync"
	"time"

	"github.com/0xcafed00d/joystick"

	customlog "github.com/open-teleop/cockpit/pkg/log"
)

// maxDevices is how many OS device indexes the watcher probes.
const maxDevices = 4

// Watcher polls for gamepad hotplug and reports connect/disconnect events
// with the device index and human-readable identifier.
type Watcher struct {
	interval     time.Duration
	onConnect    func(deviceIndex int, name string)
	onDisconnect func(deviceIndex int)
	logger       customlog.Logger

	mu      sync.Mutex
	present map[int]string
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher creates a hotplug watcher. Callbacks run on the watcher
// goroutine.
func NewWatcher(
	interval time.Duration,
	onConnect func(deviceIndex int, name string),
	onDisconnect func(deviceIndex int),
	logger customlog.Logger,
) *Watcher {
	return &Watcher{
		interval:     interval,
		onConnect:    onConnect,
		onDisconnect: onDisconnect,
		logger:       logger.WithField("component", "gamepad-watcher"),
		present:      make(map[int]string),
		stop:         make(chan struct{}),
	}
}

// Start launches the polling goroutine. An initial scan runs immediately so
// an already plugged-in device connects without waiting a full interval.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.scan()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.scan()
			case <-w.stop:
				return
			}
		}
	}()
}

// Stop halts the watcher and waits for the polling goroutine.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stop)
	w.wg.Wait()
}

func (w *Watcher) scan() {
	for index := 0; index < maxDevices; index++ {
		js, err := joystick.Open(index)
		if err != nil {
			w.markAbsent(index)
			continue
		}
		name := js.Name()
		js.Close()
		w.markPresent(index, name)
	}
}

func (w *Watcher) markPresent(index int, name string) {
	w.mu.Lock()
	_, known := w.present[index]
	if !known {
		w.present[index] = name
	}
	w.mu.Unlock()

	if !known {
		w.logger.Infof("Gamepad detected: %s (index %d)", name, index)
		w.onConnect(index, name)
	}
}

func (w *Watcher) markAbsent(index int) {
	w.mu.Lock()
	name, known := w.present[index]
	if known {
		delete(w.present, index)
	}
	w.mu.Unlock()

	if known {
		w.logger.Infof("Gamepad removed: %s (index %d)", name, index)
		w.onDisconnect(index)
	}
}
