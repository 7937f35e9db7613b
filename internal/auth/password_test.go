package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/mmynk/ekkora/internal/docstore/memory"
	"github.com/mmynk/ekkora/internal/identity"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(memory.New(), rate.Inf, 1)

	id, err := a.Register(ctx, " Ana@Example.com ", "Ana", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if id.UID == "" || id.Email != "ana@example.com" {
		t.Errorf("unexpected identity: %+v", id)
	}

	got, err := a.Authenticate(ctx, "ANA@example.com", "password123")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.UID != id.UID || got.DisplayName != "Ana" {
		t.Errorf("Authenticate returned %+v, want %+v", got, id)
	}
}

func TestAuthenticateErrors(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(memory.New(), rate.Inf, 1)
	if _, err := a.Register(ctx, "ana@example.com", "Ana", "password123"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"wrong password", "ana@example.com", "nope-nope", identity.ErrInvalidCredential},
		{"unknown user", "bia@example.com", "password123", identity.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Authenticate(ctx, tt.email, tt.password)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRegisterRejects(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(memory.New(), rate.Inf, 1)

	if _, err := a.Register(ctx, "ana@example.com", "Ana", "short"); !errors.Is(err, identity.ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
	if _, err := a.Register(ctx, "ana@example.com", "Ana", "password123"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := a.Register(ctx, "Ana@Example.com", "Ana", "password123"); !errors.Is(err, identity.ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
}

func TestSignInThrottled(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(memory.New(), rate.Every(time.Hour), 2)

	for i := 0; i < 2; i++ {
		if _, err := a.Authenticate(ctx, "ana@example.com", "x"); !errors.Is(err, identity.ErrUserNotFound) {
			t.Fatalf("attempt %d: expected ErrUserNotFound, got %v", i, err)
		}
	}
	if _, err := a.Authenticate(ctx, "ana@example.com", "x"); !errors.Is(err, identity.ErrTooManyRequests) {
		t.Errorf("expected ErrTooManyRequests, got %v", err)
	}
	// Other emails have their own bucket.
	if _, err := a.Authenticate(ctx, "bia@example.com", "x"); !errors.Is(err, identity.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestConcurrentRegisterHasOneWinner(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(memory.New(), rate.Inf, 1)

	const attempts = 6
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = a.Register(ctx, "ana@example.com", "Ana", "password123")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case !errors.Is(err, identity.ErrEmailExists):
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("%d registrations succeeded, want 1", wins)
	}
}

func TestLimiterIdle(t *testing.T) {
	tests := []struct {
		name  string
		limit rate.Limit
		burst int
		want  time.Duration
	}{
		{"unlimited", rate.Inf, 1, time.Minute},
		{"fast refill", 0.2, 5, time.Minute},
		{"slow refill", rate.Every(time.Hour), 2, 2 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := limiterIdle(tt.limit, tt.burst); got != tt.want {
				t.Errorf("limiterIdle(%v, %d) = %v, want %v", tt.limit, tt.burst, got, tt.want)
			}
		})
	}
}

func TestLimitersAreBounded(t *testing.T) {
	a := NewPasswordAuthenticator(memory.New(), rate.Every(time.Hour), 1)

	first := a.limiter("user0@example.com")
	if !first.Allow() {
		t.Fatal("fresh limiter should allow one attempt")
	}
	if a.limiter("user0@example.com") != first {
		t.Error("limiter should be reused for the same email")
	}

	for i := 1; i <= maxLimiters+50; i++ {
		a.limiter(fmt.Sprintf("user%d@example.com", i))
	}
	if n := a.limiters.Len(); n != maxLimiters {
		t.Errorf("tracked limiters = %d, want %d", n, maxLimiters)
	}
}
