package workspace

import (
	"context"
	"fmt"
	"sync"

	"github.com/mmynk/ekkora/internal/docstore"
)

// View is an attached live query. Every push of the store replaces its value
// wholesale; a failed push keeps the last good value and records the error.
type View[T any] struct {
	name    string
	sub     docstore.Subscription
	metrics *Metrics
	detach  func()

	once sync.Once

	mu    sync.Mutex
	value T
	err   error
	seen  bool
}

// watch subscribes q and converts every snapshot with build before handing
// it to onChange. onChange runs on the subscription's goroutine, one call at
// a time.
func watch[T any](
	ctx context.Context,
	w *Workspace,
	name string,
	q docstore.Query,
	build func([]*docstore.Document) (T, error),
	onChange func(T, error),
) (*View[T], error) {
	v := &View[T]{name: name, metrics: w.metrics}

	sub, err := w.repo.Docs().Subscribe(ctx, q, func(s docstore.Snapshot) {
		var value T
		err := s.Err
		if err == nil {
			value, err = build(s.Documents)
		}
		if err != nil {
			w.logger.Warn("live view snapshot failed", "view", name, "church_id", w.sess.ChurchID(), "error", err)
		}
		v.metrics.delivered(name, err)

		v.mu.Lock()
		if err == nil {
			v.value = value
		}
		v.err = err
		v.seen = true
		v.mu.Unlock()

		if onChange != nil {
			onChange(value, err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe %s: %w", name, err)
	}
	v.sub = sub
	v.detach = func() { w.untrack(v) }
	v.metrics.opened()

	if !w.track(v) {
		v.Close()
		return nil, fmt.Errorf("failed to subscribe %s: %w", name, docstore.ErrClosed)
	}
	return v, nil
}

// Current returns the last delivered value and error. ok is false until the
// first snapshot arrives.
func (v *View[T]) Current() (value T, ok bool, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value, v.seen, v.err
}

// Close detaches the view. It is idempotent.
func (v *View[T]) Close() {
	v.once.Do(func() {
		v.sub.Close()
		v.metrics.closed()
		if v.detach != nil {
			v.detach()
		}
	})
}
