package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidMode = errors.New("invalid_mode")
)

// Service is the single source of truth for "what mode is this actor in".
//
// A missing record is a valid state, not a failure: loads resolve to
// ModeNone rather than an error.
type Service interface {
	// LoadModeForActor activates the persisted mode for actorKey. When no
	// actor-scoped record exists the legacy unkeyed record is adopted and
	// written back under actorKey (one-time migration). An empty actorKey
	// is a no-op and returns the currently active mode unchanged.
	LoadModeForActor(ctx context.Context, actorKey string) (Mode, error)

	// SetMode updates the active mode and persists it. An empty actorKey
	// falls back to the currently loaded actor key, then to the legacy
	// unkeyed slot. Setting ModeNone deletes the persisted record.
	SetMode(ctx context.Context, mode Mode, actorKey string) error

	// ClearMode deletes actorKey's record and the legacy unkeyed record,
	// and resets the in-memory active mode when it belongs to that actor.
	// An empty actorKey clears whichever actor is currently loaded.
	// Invoked on logout.
	ClearMode(ctx context.Context, actorKey string) error

	// ActiveMode reports the in-memory active mode. It tracks the most
	// recent load/set on this process and exists for single-actor
	// embedders; HTTP handlers carry the per-request mode instead.
	ActiveMode() Mode
	IsRetail() bool
	IsSubscription() bool
	IsFreemium() bool
	IsMulti() bool
}
