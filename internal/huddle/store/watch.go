package store

import "sync"

// watchable is the observation mechanism stores embed: plain callback
// registration, notified after every state change. It stands in for the
// reactive cells a UI framework would provide.
type watchable struct {
	mu      sync.Mutex
	subs    map[int]func()
	nextSub int
}

// Subscribe registers fn to run after every state change and returns its
// unsubscribe func.
func (w *watchable) Subscribe(fn func()) func() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.subs == nil {
		w.subs = make(map[int]func())
	}
	id := w.nextSub
	w.nextSub++
	w.subs[id] = fn

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.subs, id)
	}
}

// notify invokes every subscriber. Callers must not hold their state lock:
// subscribers read store state through the accessors.
func (w *watchable) notify() {
	w.mu.Lock()
	fns := make([]func(), 0, len(w.subs))
	for _, fn := range w.subs {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
