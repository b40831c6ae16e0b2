package routegate

import (
	"testing"

	modedomain "github.com/smallbiznis/storefront/internal/businessmode/domain"
	identitydomain "github.com/smallbiznis/storefront/internal/identity/domain"
	"github.com/stretchr/testify/assert"
)

func authenticated(role identitydomain.Role) identitydomain.Actor {
	return identitydomain.Actor{Key: "u1", Authenticated: true, Role: role}
}

func TestEvaluateSuspendsWhilePending(t *testing.T) {
	decision := Evaluate(ActorState{Pending: true}, Requirement{RequiresAuth: true}, PathHome)
	assert.Equal(t, OutcomeSuspend, decision.Outcome)
	assert.Empty(t, decision.Location)
}

func TestAuthCheckPrecedesModeCheck(t *testing.T) {
	// Unauthenticated actors go to login, never to mode selection, even
	// when the destination also requires a selected mode.
	req := Requirement{RequiresAuth: true, RequiresModeSelection: true}
	decision := Evaluate(ActorState{Actor: identitydomain.Anonymous, Mode: modedomain.ModeNone}, req, PathHome)

	assert.Equal(t, OutcomeRedirectLogin, decision.Outcome)
	assert.Equal(t, PathLogin, decision.Location)
	assert.Equal(t, PathHome, decision.ReturnTo)
}

func TestMissingModeRedirectsToModeSelection(t *testing.T) {
	req := Requirement{RequiresAuth: true, RequiresModeSelection: true}
	decision := Evaluate(ActorState{Actor: authenticated(identitydomain.RoleCustomer), Mode: modedomain.ModeNone}, req, PathHome)

	assert.Equal(t, OutcomeRedirectModeSelect, decision.Outcome)
	assert.Equal(t, ReasonModeNotSelected, decision.Reason)
	assert.Equal(t, PathModeSelect, decision.Location)
}

func TestWrongModeRedirectsToModeSelection(t *testing.T) {
	req := Requirement{
		RequiresAuth: true,
		AllowedModes: []modedomain.Mode{modedomain.ModeSubscription, modedomain.ModeMulti},
	}
	decision := Evaluate(ActorState{Actor: authenticated(identitydomain.RoleCustomer), Mode: modedomain.ModeRetail}, req, PathSubscription)

	assert.Equal(t, OutcomeRedirectModeSelect, decision.Outcome)
	assert.Equal(t, ReasonModeNotAllowed, decision.Reason)
	assert.Equal(t, PathModeSelect, decision.Location)
}

func TestAllowedModeRenders(t *testing.T) {
	req := Requirement{
		RequiresAuth: true,
		AllowedModes: []modedomain.Mode{modedomain.ModeSubscription, modedomain.ModeMulti},
	}
	decision := Evaluate(ActorState{Actor: authenticated(identitydomain.RoleCustomer), Mode: modedomain.ModeMulti}, req, PathSubscription)

	assert.Equal(t, OutcomeAllow, decision.Outcome)
}

func TestAdminDestinationRejectsCustomerRole(t *testing.T) {
	req := Requirement{RequiresAuth: true, AdminOnly: true}
	decision := Evaluate(ActorState{Actor: authenticated(identitydomain.RoleCustomer), Mode: modedomain.ModeRetail}, req, PathAdmin)

	// Distinct from the mode-selection redirect.
	assert.Equal(t, OutcomeRedirectNotAuthorized, decision.Outcome)
	assert.Equal(t, PathNotAuthorized, decision.Location)
}

func TestAdminDestinationAllowsAdminTiers(t *testing.T) {
	req := Requirement{RequiresAuth: true, AdminOnly: true}

	for _, role := range []identitydomain.Role{identitydomain.RoleOrgAdmin, identitydomain.RoleSuperAdmin} {
		decision := Evaluate(ActorState{Actor: authenticated(role), Mode: modedomain.ModeNone}, req, PathAdmin)
		assert.Equal(t, OutcomeAllow, decision.Outcome, "role %s", role)
	}
}

func TestEmptyAllowedModesMeansAnyMode(t *testing.T) {
	req := Requirement{RequiresAuth: true, RequiresModeSelection: true}
	decision := Evaluate(ActorState{Actor: authenticated(identitydomain.RoleCustomer), Mode: modedomain.ModeFreemium}, req, PathHome)

	assert.Equal(t, OutcomeAllow, decision.Outcome)
}

func TestLandingFor(t *testing.T) {
	assert.Equal(t, PathRetailHome, LandingFor(modedomain.ModeRetail, false))
	assert.Equal(t, PathSubscription, LandingFor(modedomain.ModeSubscription, false))
	assert.Equal(t, PathFreemium, LandingFor(modedomain.ModeFreemium, false))
	assert.Equal(t, PathHome, LandingFor(modedomain.ModeMulti, false))
	assert.Equal(t, PathModeSelect, LandingFor(modedomain.ModeNone, false))
	assert.Equal(t, PathAdmin, LandingFor(modedomain.ModeRetail, true))
}

func TestDestinationTable(t *testing.T) {
	req, ok := RequirementFor(PathRetailHome)
	assert.True(t, ok)
	assert.True(t, req.RequiresAuth)
	assert.Contains(t, req.AllowedModes, modedomain.ModeRetail)
	assert.Contains(t, req.AllowedModes, modedomain.ModeMulti)

	_, ok = RequirementFor("/nope")
	assert.False(t, ok)
}
