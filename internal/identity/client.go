package identity

import (
	"context"
	"sync"
)

// Credentials verifies and registers email/password pairs.
type Credentials interface {
	Register(ctx context.Context, email, displayName, password string) (*Identity, error)
	Authenticate(ctx context.Context, email, password string) (*Identity, error)
}

// Ensure Client implements Provider
var _ Provider = (*Client)(nil)

// Client holds one signed-in session and broadcasts its changes.
type Client struct {
	creds Credentials

	mu        sync.Mutex
	current   *Identity
	listeners map[int]func(*Identity)
	nextID    int
}

// NewClient creates a signed-out client.
func NewClient(creds Credentials) *Client {
	return &Client{creds: creds, listeners: make(map[int]func(*Identity))}
}

// Current returns the signed-in identity, or nil.
func (c *Client) Current() *Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// SignIn authenticates and makes the identity current.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	id, err := c.creds.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	c.set(id)
	return id, nil
}

// SignUp registers a new identity and signs it in.
func (c *Client) SignUp(ctx context.Context, email, displayName, password string) (*Identity, error) {
	id, err := c.creds.Register(ctx, email, displayName, password)
	if err != nil {
		return nil, err
	}
	c.set(id)
	return id, nil
}

// SignOut clears the current identity.
func (c *Client) SignOut(ctx context.Context) error {
	c.set(nil)
	return nil
}

// OnSessionChange registers fn. Listeners run synchronously on the goroutine
// that changed the session; their relative order is unspecified.
func (c *Client) OnSessionChange(fn func(*Identity)) func() {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.listeners[id] = fn
	current := c.current
	c.mu.Unlock()

	fn(current)

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Client) set(id *Identity) {
	c.mu.Lock()
	c.current = id
	listeners := make([]func(*Identity), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(id)
	}
}
