package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mmynk/ekkora/internal/identity"
)

type staticCredentials struct{}

func (staticCredentials) Register(_ context.Context, email, name, _ string) (*identity.Identity, error) {
	return &identity.Identity{UID: "u-" + identity.NormalizeEmail(email), Email: email, DisplayName: name}, nil
}

func (staticCredentials) Authenticate(_ context.Context, email, _ string) (*identity.Identity, error) {
	return &identity.Identity{UID: "u-" + identity.NormalizeEmail(email), Email: email}, nil
}

func TestDriverFollowsSessionChanges(t *testing.T) {
	f := newFixture(t)
	client := identity.NewClient(staticCredentials{})
	r := f.resolver(Decline)

	var (
		mu      sync.Mutex
		results []State
	)
	d := Attach(context.Background(), r, client, func() string { return "/index.html" },
		OnResult(func(dec Decision, err error) {
			if err != nil {
				return
			}
			mu.Lock()
			results = append(results, dec.State)
			mu.Unlock()
		}))
	defer d.Close()

	d.Wait()
	if _, err := client.SignIn(context.Background(), "ana@example.com", "pw"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	d.Wait()
	if r.State() != NoTenant {
		t.Errorf("state after sign-in = %s", r.State())
	}

	if err := client.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	d.Wait()
	if r.State() != Unauthenticated {
		t.Errorf("state after sign-out = %s", r.State())
	}

	mu.Lock()
	defer mu.Unlock()
	if len(results) != 3 || results[0] != Unauthenticated || results[1] != NoTenant || results[2] != Unauthenticated {
		t.Errorf("results = %v", results)
	}
}

func TestDriverCloseDetaches(t *testing.T) {
	f := newFixture(t)
	client := identity.NewClient(staticCredentials{})
	r := f.resolver(Decline)

	calls := make(chan State, 8)
	d := Attach(context.Background(), r, client, func() string { return "/" },
		OnResult(func(dec Decision, _ error) { calls <- dec.State }))
	<-calls
	d.Close()
	d.Close()

	if _, err := client.SignIn(context.Background(), "ana@example.com", "pw"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	select {
	case s := <-calls:
		t.Errorf("resolution after Close: %s", s)
	case <-time.After(100 * time.Millisecond):
	}
	if len(f.nav.calls()) != 0 {
		t.Errorf("navigated after Close: %v", f.nav.calls())
	}
}
