package routegate

import (
	modedomain "github.com/smallbiznis/storefront/internal/businessmode/domain"
)

// Canonical destinations of the gated route surface.
const (
	PathLogin         = "/login"
	PathModeSelect    = "/select-mode"
	PathHome          = "/home"
	PathRetailHome    = "/retail/products"
	PathSubscription  = "/subscription/plans"
	PathFreemium      = "/freemium/plans"
	PathAdmin         = "/admin"
	PathNotAuthorized = "/not-authorized"
)

// Destinations is the build-time requirement table for every gated
// destination. Destinations absent from the table are not evaluable;
// RequirementFor reports them as unknown.
var Destinations = map[string]Requirement{
	PathLogin:         {},
	PathNotAuthorized: {},
	PathModeSelect:    {RequiresAuth: true},
	PathHome:          {RequiresAuth: true, RequiresModeSelection: true},
	PathRetailHome: {
		RequiresAuth:          true,
		RequiresModeSelection: true,
		AllowedModes:          []modedomain.Mode{modedomain.ModeRetail, modedomain.ModeMulti},
	},
	PathSubscription: {
		RequiresAuth:          true,
		RequiresModeSelection: true,
		AllowedModes:          []modedomain.Mode{modedomain.ModeSubscription, modedomain.ModeMulti},
	},
	PathFreemium: {
		RequiresAuth:          true,
		RequiresModeSelection: true,
		AllowedModes:          []modedomain.Mode{modedomain.ModeFreemium, modedomain.ModeMulti},
	},
	PathAdmin: {RequiresAuth: true, AdminOnly: true},
}

// RequirementFor returns the requirement attached to a destination path.
func RequirementFor(path string) (Requirement, bool) {
	req, ok := Destinations[path]
	return req, ok
}

// LandingFor maps a freshly selected mode to its canonical landing
// destination. Admin-tier actors land on the admin dashboard regardless
// of mode.
func LandingFor(mode modedomain.Mode, adminTier bool) string {
	if adminTier {
		return PathAdmin
	}
	switch mode {
	case modedomain.ModeRetail:
		return PathRetailHome
	case modedomain.ModeSubscription:
		return PathSubscription
	case modedomain.ModeFreemium:
		return PathFreemium
	case modedomain.ModeMulti:
		return PathHome
	default:
		return PathModeSelect
	}
}
