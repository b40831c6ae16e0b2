package authorization

import (
	"context"
	"errors"

	identitydomain "github.com/smallbiznis/storefront/internal/identity/domain"
)

var (
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
	ErrForbidden     = errors.New("forbidden")
)

// Service answers whether an actor may perform an action on an object.
type Service interface {
	Authorize(ctx context.Context, actor identitydomain.Actor, object, action string) error
}
