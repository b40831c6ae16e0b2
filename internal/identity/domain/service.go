package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidToken = errors.New("invalid_token")
	ErrInvalidRole  = errors.New("invalid_role")
	ErrNotDemoActor = errors.New("not_demo_actor")
)

// Service resolves "who is the current actor".
//
// Resolution never fails outward: a dead identity backend, an expired
// token and a failed local decode all resolve to the anonymous actor.
type Service interface {
	// Resolve turns a raw bearer token into an Actor. The remote identity
	// backend is tried first, raced against the configured timeout; on
	// any failure the token is decoded locally. An empty token or a
	// double failure resolves to Anonymous.
	Resolve(ctx context.Context, rawToken string) Actor

	// SwitchDemoRole reassigns the role of a demo actor locally, without
	// backend involvement. Non-demo actors are rejected.
	SwitchDemoRole(actor Actor, role Role) (Actor, error)

	// ActorKey derives the mode-store key from a profile per the
	// configured id/email precedence.
	ActorKey(profile Profile) string
}
