package watch

import (
	"slices"
	"sync"
	"time"
)

// Debouncer collects paths and calls fire with all of them once no new
// path has arrived for the interval. Calls to fire never overlap.
type Debouncer struct {
	interval time.Duration
	fire     func(paths []string)

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
	stopped bool

	// held while fire runs
	running sync.Mutex
}

// NewDebouncer creates a debouncer.
func NewDebouncer(interval time.Duration, fire func(paths []string)) *Debouncer {
	return &Debouncer{
		interval: interval,
		fire:     fire,
		pending:  make(map[string]struct{}),
	}
}

// Add records a changed path and restarts the quiet period.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[path] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.Flush)
}

// Flush fires immediately with the pending paths, if any.
func (d *Debouncer) Flush() {
	d.running.Lock()
	defer d.running.Unlock()

	d.mu.Lock()
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(d.pending))
	for path := range d.pending {
		paths = append(paths, path)
	}
	clear(d.pending)
	d.mu.Unlock()

	slices.Sort(paths)
	d.fire(paths)
}

// Stop drops pending paths and waits for a running fire to return.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	clear(d.pending)
	d.mu.Unlock()

	d.running.Lock()
	d.running.Unlock()
}
