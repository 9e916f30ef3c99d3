// Package session tracks the current identity and its profile for a
// long-lived consumer, reloading the profile whenever the identity changes.
package session

import (
	"context"
	"log/slog"
	"sync"

	"medtracker/internal/domain/entity"
	domainerrors "medtracker/internal/domain/errors"
	"medtracker/internal/usecase"

	"github.com/pkg/errors"
)

// Snapshot is the resolver's current view. Loading is true while a profile
// fetch for the current identity is still in flight. IsAuthenticated depends
// only on the identity being present; a missing profile does not demote the
// session to anonymous.
type Snapshot struct {
	User            *entity.User
	Profile         *entity.Profile
	Loading         bool
	IsAuthenticated bool
}

// Resolver serializes identity changes through a generation counter. Every
// change bumps the generation; a profile fetch carries the generation it was
// started under and its result is discarded if another change happened in
// the meantime. A slow fetch for a previous identity can therefore never
// overwrite the state of the current one.
type Resolver struct {
	sessions usecase.SessionUsecase
	logger   *slog.Logger

	mu         sync.Mutex
	generation uint64
	snapshot   Snapshot

	wg sync.WaitGroup
}

// NewResolver constructs a resolver in the anonymous state.
func NewResolver(sessions usecase.SessionUsecase, logger *slog.Logger) *Resolver {
	return &Resolver{
		sessions: sessions,
		logger:   logger,
	}
}

// Start applies the initial identity, if any, and begins its profile fetch.
func (r *Resolver) Start(ctx context.Context, user *entity.User) {
	r.OnSessionChange(ctx, user)
}

// OnSessionChange applies a new identity (or nil for sign-out) and starts an
// asynchronous profile fetch for it. Safe for concurrent use.
func (r *Resolver) OnSessionChange(ctx context.Context, user *entity.User) {
	r.mu.Lock()
	r.generation++
	gen := r.generation

	if user == nil {
		r.snapshot = Snapshot{}
		r.mu.Unlock()

		return
	}

	r.snapshot = Snapshot{
		User:            user,
		Loading:         true,
		IsAuthenticated: true,
	}
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.resolve(ctx, gen, user)
	}()
}

// SignOut revokes the session through the provided callback and clears the
// local state once revocation succeeds. On failure the snapshot is left as it
// was (never stuck loading) and the error is returned to the caller.
func (r *Resolver) SignOut(ctx context.Context, revoke func(context.Context) error) error {
	if revoke != nil {
		if err := revoke(ctx); err != nil {
			return errors.Wrap(err, "failed to sign out")
		}
	}

	r.OnSessionChange(ctx, nil)

	return nil
}

// Snapshot returns the current view.
func (r *Resolver) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snapshot
}

// Wait blocks until all in-flight fetches have completed. Used on shutdown
// and by tests; discarded fetches count as completed.
func (r *Resolver) Wait() {
	r.wg.Wait()
}

func (r *Resolver) resolve(ctx context.Context, gen uint64, user *entity.User) {
	output, err := r.sessions.GetSession(ctx, user.ID)

	r.mu.Lock()
	defer r.mu.Unlock()

	// A newer identity change won; this result describes a session that no
	// longer exists.
	if gen != r.generation {
		r.logger.Debug("Discarding stale session fetch",
			slog.Uint64("generation", gen),
			slog.Uint64("current", r.generation),
		)

		return
	}

	if err != nil {
		// The identity stays authenticated; only the profile is unknown.
		if !errors.Is(err, domainerrors.ErrProfileNotFound) {
			r.logger.Warn("Session fetch failed", slog.Any("userID", user.ID), slog.Any("error", err))
		}
		r.snapshot.Loading = false

		return
	}

	r.snapshot = Snapshot{
		User:            output.User,
		Profile:         output.Profile,
		Loading:         false,
		IsAuthenticated: output.IsAuthenticated,
	}
}
