package session

import (
	"context"
	"errors"
	"sync"

	"github.com/mmynk/ekkora/internal/identity"
)

// Driver runs the resolver on every session-change event of a provider.
type Driver struct {
	resolver *Resolver
	location func() string
	onResult func(Decision, error)

	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	wg          sync.WaitGroup
	once        sync.Once
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// OnResult registers a callback for every finished resolution, including
// abandoned ones.
func OnResult(fn func(Decision, error)) DriverOption {
	return func(d *Driver) { d.onResult = fn }
}

// Attach subscribes resolver to provider's session changes. location reports
// the surface currently shown. The provider's immediate callback triggers the
// first resolution.
func Attach(ctx context.Context, resolver *Resolver, provider identity.Provider, location func() string, opts ...DriverOption) *Driver {
	dctx, cancel := context.WithCancel(ctx)
	d := &Driver{
		resolver: resolver,
		location: location,
		onResult: func(Decision, error) {},
		ctx:      dctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.unsubscribe = provider.OnSessionChange(d.handle)
	return d
}

// handle claims a generation synchronously so that events keep their order
// even though resolutions run concurrently.
func (d *Driver) handle(id *identity.Identity) {
	if d.ctx.Err() != nil {
		return
	}
	gen := d.resolver.advance()
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		decision, err := d.resolver.run(d.ctx, gen, id, d.location())
		if errors.Is(err, context.Canceled) && d.ctx.Err() != nil {
			return
		}
		d.onResult(decision, err)
	}()
}

// Wait blocks until every started resolution has finished.
func (d *Driver) Wait() {
	d.wg.Wait()
}

// Close detaches from the provider and waits for running resolutions.
func (d *Driver) Close() {
	d.once.Do(func() {
		if d.unsubscribe != nil {
			d.unsubscribe()
		}
		d.resolver.Invalidate()
		d.cancel()
		d.wg.Wait()
	})
}
