package docstore

import (
	"context"
	"sync"
	"sync/atomic"
)

// Runner executes a query once against a backend.
type Runner func(ctx context.Context, q Query) ([]*Document, error)

// Hub fans collection changes out to live queries for backends that have no
// native change feed. Each subscription owns a goroutine and a single-slot
// mailbox: a burst of writes collapses into one re-run, and a slow handler
// never blocks a writer.
type Hub struct {
	run Runner

	mu       sync.Mutex
	watchers map[uint64]*watcher
	nextID   uint64
	closed   bool
}

// NewHub creates a hub that re-runs queries with run.
func NewHub(run Runner) *Hub {
	return &Hub{run: run, watchers: make(map[uint64]*watcher)}
}

type watcher struct {
	id      uint64
	hub     *Hub
	query   Query
	handler func(Snapshot)
	mailbox chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	closed  atomic.Bool

	// delivering is held for the closed check and the handler call together.
	delivering sync.Mutex
}

// Subscribe registers a live query and schedules its first delivery.
func (h *Hub) Subscribe(ctx context.Context, q Query, handler func(Snapshot)) (Subscription, error) {
	if !ValidCollection(q.Collection) {
		return nil, ErrInvalidPath
	}

	wctx, cancel := context.WithCancel(ctx)
	w := &watcher{
		hub:     h,
		query:   q,
		handler: handler,
		mailbox: make(chan struct{}, 1),
		ctx:     wctx,
		cancel:  cancel,
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		cancel()
		return nil, ErrClosed
	}
	h.nextID++
	w.id = h.nextID
	h.watchers[w.id] = w
	h.mu.Unlock()

	select {
	case w.mailbox <- struct{}{}:
	default:
	}
	go w.loop()
	return w, nil
}

// Notify wakes every subscription on collection.
func (h *Hub) Notify(collection string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, w := range h.watchers {
		if w.query.Collection != collection {
			continue
		}
		select {
		case w.mailbox <- struct{}{}:
		default:
		}
	}
}

// Active returns the number of attached subscriptions.
func (h *Hub) Active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.watchers)
}

// Close detaches every subscription. Later Subscribe calls fail.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	watchers := make([]*watcher, 0, len(h.watchers))
	for _, w := range h.watchers {
		watchers = append(watchers, w)
	}
	h.mu.Unlock()

	for _, w := range watchers {
		w.Close()
	}
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	delete(h.watchers, id)
	h.mu.Unlock()
}

func (w *watcher) loop() {
	defer w.hub.remove(w.id)
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.mailbox:
		}

		docs, err := w.hub.run(w.ctx, w.query)
		if !w.deliver(Snapshot{Documents: docs, Err: err}) {
			return
		}
	}
}

// deliver runs the handler unless the watcher was closed. It reports whether
// the watcher is still open.
func (w *watcher) deliver(snap Snapshot) bool {
	w.delivering.Lock()
	defer w.delivering.Unlock()
	if w.ctx.Err() != nil || w.closed.Load() {
		return false
	}
	w.handler(snap)
	return true
}

// Close waits for an in-flight delivery to return.
func (w *watcher) Close() {
	if w.closed.Swap(true) {
		return
	}
	w.cancel()
	w.hub.remove(w.id)
	w.delivering.Lock()
	w.delivering.Unlock()
}
