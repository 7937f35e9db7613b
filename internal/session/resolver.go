// Package session resolves an identity into a tenant workspace.
//
// On every session-change event the Resolver reads or creates the user
// profile, resolves the church binding and any pending invite, and decides
// where the user should land. It is an explicit state machine:
//
//	Unauthenticated -> ResolvingTenant -> {PendingInvite, NoTenant, InWorkspace}
//
// Store calls may observe a changed world: each run captures a session
// generation and abandons itself with ErrSessionChanged once a newer event
// has arrived. A failed run shows a notice and never navigates.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmynk/ekkora/internal/apperr"
	"github.com/mmynk/ekkora/internal/identity"
	"github.com/mmynk/ekkora/internal/models"
)

// ValidationFailedNotice is shown when a resolution fails.
const ValidationFailedNotice = "session validation failed"

var (
	// ErrSessionChanged means a newer session event superseded the run.
	ErrSessionChanged = errors.New("session changed during resolution")
	// ErrInvalidTransition means the resolver attempted an illegal state change.
	ErrInvalidTransition = errors.New("invalid session state transition")
)

// Answer is the user's response to an invite prompt.
type Answer int

const (
	// Undecided leaves the invite pending without navigating.
	Undecided Answer = iota
	Accept
	Decline
)

// Prompter asks the user whether to join the inviting church.
type Prompter interface {
	ConfirmInvite(ctx context.Context, inv *models.Invite, church *models.Church) (Answer, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, inv *models.Invite, church *models.Church) (Answer, error)

func (f PrompterFunc) ConfirmInvite(ctx context.Context, inv *models.Invite, church *models.Church) (Answer, error) {
	return f(ctx, inv, church)
}

// Notifier shows a transient user-visible message.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Decision is the outcome of one resolution.
type Decision struct {
	State State

	// Destination is where the resolver routed, or "" when it stayed put.
	Destination string
	// Navigated is false when Destination matched the current location.
	Navigated bool

	// Profile is the resolved user profile, once read.
	Profile *models.UserProfile
	// Invite is set in PendingInvite and after an acceptance.
	Invite *models.Invite
	// Church is the invite's church in PendingInvite.
	Church *models.Church
	// Session is set in InWorkspace.
	Session *Context
}

// Resolver runs the session state machine.
type Resolver struct {
	store     Store
	navigator Navigator
	notifier  Notifier
	prompter  Prompter
	hints     Hints
	logger    *slog.Logger
	observer  func(from, to State)

	mu         sync.Mutex
	state      State
	generation uint64
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithNotifier sets where failure notices go.
func WithNotifier(n Notifier) Option { return func(r *Resolver) { r.notifier = n } }

// WithPrompter sets who answers invite prompts. Without one every invite stays pending.
func WithPrompter(p Prompter) Option { return func(r *Resolver) { r.prompter = p } }

// WithHints sets the client hint store.
func WithHints(h Hints) Option { return func(r *Resolver) { r.hints = h } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(r *Resolver) { r.logger = l } }

// WithObserver registers a callback for every state transition.
func WithObserver(fn func(from, to State)) Option { return func(r *Resolver) { r.observer = fn } }

// NewResolver creates a resolver in the Unauthenticated state.
func NewResolver(store Store, navigator Navigator, opts ...Option) *Resolver {
	r := &Resolver{
		store:     store,
		navigator: navigator,
		notifier:  NotifierFunc(func(string) {}),
		prompter: PrompterFunc(func(context.Context, *models.Invite, *models.Church) (Answer, error) {
			return Undecided, nil
		}),
		hints:  noHints{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current state.
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Invalidate marks every in-flight resolution as stale.
func (r *Resolver) Invalidate() {
	r.advance()
}

// Resolve runs one resolution for id at the current location. A nil id means
// nobody is signed in.
func (r *Resolver) Resolve(ctx context.Context, id *identity.Identity, location string) (Decision, error) {
	return r.run(ctx, r.advance(), id, location)
}

func (r *Resolver) advance() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	return r.generation
}

// current returns ErrSessionChanged once gen is no longer the latest run.
func (r *Resolver) current(gen uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.generation != gen {
		return ErrSessionChanged
	}
	return nil
}

func (r *Resolver) transition(gen uint64, to State) error {
	r.mu.Lock()
	if r.generation != gen {
		r.mu.Unlock()
		return ErrSessionChanged
	}
	from := r.state
	if !canTransition(from, to) {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	r.state = to
	r.mu.Unlock()

	if r.observer != nil {
		r.observer(from, to)
	}
	return nil
}

// checked folds a store error and a staleness check into one.
func (r *Resolver) checked(gen uint64, err error) error {
	if err != nil {
		if cerr := r.current(gen); cerr != nil {
			return cerr
		}
		return err
	}
	return r.current(gen)
}

func (r *Resolver) run(ctx context.Context, gen uint64, id *identity.Identity, location string) (Decision, error) {
	if id == nil {
		if err := r.transition(gen, Unauthenticated); err != nil {
			return r.fail(gen, err)
		}
		return Decision{State: Unauthenticated}, nil
	}

	logger := r.logger.With("uid", id.UID)
	if err := r.transition(gen, ResolvingTenant); err != nil {
		return r.fail(gen, err)
	}

	profile, err := r.ensureProfile(ctx, gen, id)
	if err != nil {
		return r.fail(gen, err)
	}

	if profile.Bound() {
		return r.resolveBound(ctx, gen, id, profile, location, logger, true)
	}
	return r.resolveUnbound(ctx, gen, id, profile, location, logger)
}

// resolveUnbound offers a pending invite, or routes to onboarding.
func (r *Resolver) resolveUnbound(ctx context.Context, gen uint64, id *identity.Identity, profile *models.UserProfile, location string, logger *slog.Logger) (Decision, error) {
	inv, err := r.store.GetIndexInvite(ctx, id.NormalizedEmail())
	if err := r.checked(gen, err); err != nil {
		return r.fail(gen, err)
	}

	if inv.Pending() {
		church, err := r.store.GetChurch(ctx, inv.ChurchID)
		if err := r.checked(gen, err); err != nil {
			return r.fail(gen, err)
		}

		if church != nil {
			answer, err := r.prompter.ConfirmInvite(ctx, inv, church)
			if err := r.checked(gen, err); err != nil {
				return r.fail(gen, err)
			}

			switch answer {
			case Undecided:
				if err := r.transition(gen, PendingInvite); err != nil {
					return r.fail(gen, err)
				}
				logger.Info("invite awaiting answer", "church_id", church.ID)
				return Decision{State: PendingInvite, Profile: profile, Invite: inv, Church: church}, nil

			case Accept:
				if err := acceptInvite(ctx, r.store, id, inv, func() error { return r.current(gen) }); err != nil {
					return r.fail(gen, err)
				}
				logger.Info("invite accepted", "church_id", church.ID, "role", inv.Role)

				profile, err = r.store.GetProfile(ctx, id.UID)
				if err := r.checked(gen, err); err != nil {
					return r.fail(gen, err)
				}
				if profile == nil {
					return r.fail(gen, apperr.NotFoundf("profile %s disappeared", id.UID))
				}
				d, err := r.resolveBound(ctx, gen, id, profile, location, logger, false)
				d.Invite = inv
				return d, err
			}
		}
	}

	return r.settleNoTenant(gen, profile, location, logger)
}

// ensureProfile returns the profile of id, creating it unbound if needed. The
// profile is always re-read after a create so the caller sees the stored form.
func (r *Resolver) ensureProfile(ctx context.Context, gen uint64, id *identity.Identity) (*models.UserProfile, error) {
	profile, err := r.store.GetProfile(ctx, id.UID)
	if err := r.checked(gen, err); err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	err = r.store.CreateProfile(ctx, id.UID, id.NormalizedEmail(), id.DisplayName)
	if err := r.checked(gen, err); err != nil {
		return nil, err
	}

	profile, err = r.store.GetProfile(ctx, id.UID)
	if err := r.checked(gen, err); err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperr.NotFoundf("profile %s not readable after create", id.UID)
	}
	return profile, nil
}

// resolveBound enters the bound church. When the binding is stale, because
// the church is gone or the membership was removed, the profile is treated as
// unbound; offerInvites controls whether a pending invite is offered then.
func (r *Resolver) resolveBound(ctx context.Context, gen uint64, id *identity.Identity, profile *models.UserProfile, location string, logger *slog.Logger, offerInvites bool) (Decision, error) {
	// A pending index invite for the bound church means an earlier acceptance
	// stopped partway.
	inv, err := r.store.GetIndexInvite(ctx, id.NormalizedEmail())
	if err := r.checked(gen, err); err != nil {
		return r.fail(gen, err)
	}
	if inv.Pending() && inv.ChurchID == profile.ChurchID {
		if err := acceptInvite(ctx, r.store, id, inv, func() error { return r.current(gen) }); err != nil {
			return r.fail(gen, err)
		}
		logger.Info("finished interrupted invite acceptance", "church_id", inv.ChurchID)
	}

	sc, err := Load(ctx, r.store, id, profile)
	if err := r.checked(gen, err); err != nil {
		if errors.Is(err, ErrSessionChanged) || !staleBinding(err) {
			return r.fail(gen, err)
		}
		logger.Warn("stale church binding", "church_id", profile.ChurchID, "error", err)
		unbound := *profile
		unbound.ChurchID = ""
		if offerInvites {
			return r.resolveUnbound(ctx, gen, id, &unbound, location, logger)
		}
		return r.settleNoTenant(gen, &unbound, location, logger)
	}

	if err := r.transition(gen, InWorkspace); err != nil {
		return r.fail(gen, err)
	}
	r.hints.Set(HintActiveChurchID, sc.ChurchID())
	d := Decision{State: InWorkspace, Profile: profile, Session: sc}
	d.Destination, d.Navigated = r.navigate(location, Workspace)
	logger.Info("session resolved", "state", InWorkspace, "church_id", sc.ChurchID(), "role", sc.Role)
	return d, nil
}

func (r *Resolver) settleNoTenant(gen uint64, profile *models.UserProfile, location string, logger *slog.Logger) (Decision, error) {
	if err := r.transition(gen, NoTenant); err != nil {
		return r.fail(gen, err)
	}
	r.hints.Delete(HintActiveChurchID)
	d := Decision{State: NoTenant, Profile: profile}
	d.Destination, d.Navigated = r.navigate(location, Onboarding)
	logger.Info("session resolved", "state", NoTenant)
	return d, nil
}

// staleBinding reports whether Load failed because the profile points at a
// church it can no longer enter. Onboarding is the recovery surface for both.
func staleBinding(err error) bool {
	return apperr.Is(err, apperr.NotFound) || errors.Is(err, ErrNotMember)
}

// navigate redirects unless already on destination.
func (r *Resolver) navigate(location, destination string) (string, bool) {
	if SameLocation(location, destination) {
		return destination, false
	}
	r.navigator.Navigate(destination)
	return destination, true
}

// fail reports err once. Superseded runs stay silent.
func (r *Resolver) fail(gen uint64, err error) (Decision, error) {
	state := r.State()
	if errors.Is(err, ErrSessionChanged) {
		r.logger.Debug("resolution abandoned", "generation", gen)
		return Decision{State: state}, err
	}
	r.logger.Error("session validation failed", "error", err, "kind", apperr.KindOf(err))
	r.notifier.Notify(ValidationFailedNotice)
	return Decision{State: state}, err
}
