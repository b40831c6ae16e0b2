package domain

import (
	"context"

	modedomain "github.com/smallbiznis/storefront/internal/businessmode/domain"
	identitydomain "github.com/smallbiznis/storefront/internal/identity/domain"
)

// Result is the committed transition plus where the actor lands next.
type Result struct {
	Mode    modedomain.Mode `json:"mode"`
	Landing string          `json:"landing"`
}

// Service is the only path by which an actor's mode changes after the
// initial selection. Selecting the mode the actor already has is legal
// and idempotent.
type Service interface {
	SelectMode(ctx context.Context, actor identitydomain.Actor, mode modedomain.Mode) (Result, error)
}
