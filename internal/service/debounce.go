package service

import (
	"sort"
	"sync"
	"time"
)

// Debouncer delays a function per key until the key has been quiet for the
// configured delay. Scheduling a key again replaces its pending function
// and restarts the wait.
type Debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	pending map[string]*debounced
}

type debounced struct {
	timer *time.Timer
	fn    func()
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay, pending: make(map[string]*debounced)}
}

// Schedule runs fn once key has been quiet for the delay.
func (d *Debouncer) Schedule(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.pending[key]; ok {
		prev.timer.Stop()
	}
	entry := &debounced{fn: fn}
	entry.timer = time.AfterFunc(d.delay, func() { d.fire(key, entry) })
	d.pending[key] = entry
}

func (d *Debouncer) fire(key string, entry *debounced) {
	d.mu.Lock()
	if d.pending[key] != entry {
		// Replaced, flushed or stopped while the timer was firing.
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()
	entry.fn()
}

// Flush runs every pending function now, in key order, on the caller's
// goroutine.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	keys := make([]string, 0, len(d.pending))
	for k := range d.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fns := make([]func(), 0, len(keys))
	for _, k := range keys {
		entry := d.pending[k]
		entry.timer.Stop()
		fns = append(fns, entry.fn)
	}
	d.pending = make(map[string]*debounced)
	d.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Stop drops every pending function without running it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, entry := range d.pending {
		entry.timer.Stop()
	}
	d.pending = make(map[string]*debounced)
}

// Pending reports how many keys are waiting.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
