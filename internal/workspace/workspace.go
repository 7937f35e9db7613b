// Package workspace implements the operations of one church's workspace:
// ledger, categories, members, people registry, dashboard and reports.
//
// A Workspace is opened for a resolved session and carries that session's
// role, so every mutation is checked against the role guard before it reaches
// the store. Live views subscribe to tenant-scoped queries and must be closed;
// closing the workspace closes every view it opened.
package workspace

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/ekkora/internal/identity"
	"github.com/mmynk/ekkora/internal/money"
	"github.com/mmynk/ekkora/internal/session"
	"github.com/mmynk/ekkora/internal/storage"
)

// Workspace is a tenant-scoped handle bound to one session context.
type Workspace struct {
	sess    *session.Context
	repo    *storage.Repository
	metrics *Metrics
	logger  *slog.Logger
	money   *money.Formatter
	now     func() time.Time
	loc     *time.Location

	mu     sync.Mutex
	views  map[closer]struct{}
	closed bool
}

type closer interface {
	Close()
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithMetrics reports live views to m.
func WithMetrics(m *Metrics) Option {
	return func(w *Workspace) { w.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Workspace) { w.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(w *Workspace) { w.now = now }
}

// WithLocation sets the time zone calendar days are counted in.
func WithLocation(loc *time.Location) Option {
	return func(w *Workspace) { w.loc = loc }
}

// WithFormatter sets the currency formatter used for dashboard labels.
func WithFormatter(f *money.Formatter) Option {
	return func(w *Workspace) { w.money = f }
}

// New creates a workspace for an already loaded session context.
func New(sess *session.Context, repo *storage.Repository, opts ...Option) *Workspace {
	w := &Workspace{
		sess:   sess,
		repo:   repo,
		logger: slog.Default(),
		money:  money.Default,
		now:    time.Now,
		loc:    time.UTC,
		views:  make(map[closer]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Open loads the session context of id and creates its workspace. The owner's
// membership is repaired as admin when it is missing.
func Open(ctx context.Context, repo *storage.Repository, id *identity.Identity, opts ...Option) (*Workspace, error) {
	sess, err := session.Open(ctx, repo, id)
	if err != nil {
		return nil, err
	}
	return New(sess, repo, opts...), nil
}

// Session returns the context the workspace was opened with.
func (w *Workspace) Session() *session.Context {
	return w.sess
}

// Close detaches every live view opened through w.
func (w *Workspace) Close() {
	w.mu.Lock()
	w.closed = true
	views := make([]closer, 0, len(w.views))
	for v := range w.views {
		views = append(views, v)
	}
	w.views = map[closer]struct{}{}
	w.mu.Unlock()

	for _, v := range views {
		v.Close()
	}
}

// Now returns the current time in the workspace's location.
func (w *Workspace) Now() time.Time {
	return w.today()
}

func (w *Workspace) today() time.Time {
	return w.now().In(w.loc)
}

// track registers v so Close can detach it. It reports false when the
// workspace is already closed.
func (w *Workspace) track(v closer) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	w.views[v] = struct{}{}
	return true
}

func (w *Workspace) untrack(v closer) {
	w.mu.Lock()
	delete(w.views, v)
	w.mu.Unlock()
}
