// Package routegate decides, for a single navigation attempt, whether the
// destination renders or the actor is redirected. Evaluate is a pure
// function of the actor state, the active business mode and the
// destination's static requirement; callers re-run it whenever any of
// those inputs change.
package routegate

import (
	modedomain "github.com/smallbiznis/storefront/internal/businessmode/domain"
	identitydomain "github.com/smallbiznis/storefront/internal/identity/domain"
)

// Requirement is the static metadata attached to a navigable destination.
// An empty AllowedModes set means "any mode".
type Requirement struct {
	RequiresAuth          bool
	RequiresModeSelection bool
	AllowedModes          []modedomain.Mode
	AdminOnly             bool
}

// ActorState is the gate's view of the current session.
type ActorState struct {
	// Pending is true while identity resolution is still in flight.
	// The gate suspends rather than redirecting prematurely.
	Pending bool
	Actor   identitydomain.Actor
	Mode    modedomain.Mode
}

type Outcome string

const (
	OutcomeSuspend               Outcome = "suspend"
	OutcomeAllow                 Outcome = "allow"
	OutcomeRedirectLogin         Outcome = "redirect_login"
	OutcomeRedirectModeSelect    Outcome = "redirect_mode_select"
	OutcomeRedirectNotAuthorized Outcome = "redirect_not_authorized"
)

// Reason distinguishes why a redirect was issued. Mode-selection
// redirects merge two cases at the same destination; the reason lets
// callers refine messaging without changing the destination.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonModeNotSelected Reason = "mode_not_selected"
	ReasonModeNotAllowed  Reason = "mode_not_allowed"
	ReasonRoleForbidden   Reason = "role_forbidden"
)

// Decision is the terminal outcome of a single evaluation.
type Decision struct {
	Outcome  Outcome `json:"outcome"`
	Reason   Reason  `json:"reason,omitempty"`
	Location string  `json:"location,omitempty"`
	// ReturnTo carries the originally requested path so login can route
	// the actor back after authentication.
	ReturnTo string `json:"return_to,omitempty"`
}

// Evaluate applies the gating rules in strict order: pending,
// authentication, mode selection, allowed modes, admin role.
func Evaluate(state ActorState, req Requirement, requestedPath string) Decision {
	if state.Pending {
		return Decision{Outcome: OutcomeSuspend}
	}

	if req.RequiresAuth && !state.Actor.Authenticated {
		return Decision{
			Outcome:  OutcomeRedirectLogin,
			Reason:   ReasonUnauthenticated,
			Location: PathLogin,
			ReturnTo: requestedPath,
		}
	}

	if req.RequiresModeSelection && !state.Mode.Selected() {
		return Decision{
			Outcome:  OutcomeRedirectModeSelect,
			Reason:   ReasonModeNotSelected,
			Location: PathModeSelect,
		}
	}

	if len(req.AllowedModes) > 0 && !modeAllowed(state.Mode, req.AllowedModes) {
		return Decision{
			Outcome:  OutcomeRedirectModeSelect,
			Reason:   ReasonModeNotAllowed,
			Location: PathModeSelect,
		}
	}

	if req.AdminOnly && !state.Actor.Role.AdminTier() {
		return Decision{
			Outcome:  OutcomeRedirectNotAuthorized,
			Reason:   ReasonRoleForbidden,
			Location: PathNotAuthorized,
		}
	}

	return Decision{Outcome: OutcomeAllow}
}

func modeAllowed(mode modedomain.Mode, allowed []modedomain.Mode) bool {
	for _, m := range allowed {
		if mode == m {
			return true
		}
	}
	return false
}
