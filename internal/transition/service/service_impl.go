package service

import (
	"context"

	auditdomain "github.com/smallbiznis/storefront/internal/audit/domain"
	modedomain "github.com/smallbiznis/storefront/internal/businessmode/domain"
	identitydomain "github.com/smallbiznis/storefront/internal/identity/domain"
	"github.com/smallbiznis/storefront/internal/routegate"
	"github.com/smallbiznis/storefront/internal/transition/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Modes    modedomain.Service
	AuditSvc auditdomain.Service `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	modes    modedomain.Service
	auditSvc auditdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("transition.service"),
		modes:    p.Modes,
		auditSvc: p.AuditSvc,
	}
}

// SelectMode persists the new mode before resolving the landing
// destination: write-then-navigate, never concurrent.
func (s *Service) SelectMode(ctx context.Context, actor identitydomain.Actor, mode modedomain.Mode) (domain.Result, error) {
	if !mode.Selected() {
		return domain.Result{}, modedomain.ErrInvalidMode
	}

	if err := s.modes.SetMode(ctx, mode, actor.Key); err != nil {
		return domain.Result{}, err
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.Record(ctx, actor.Key, auditdomain.ActionModeSelected, map[string]any{
			"mode": string(mode),
		})
	}

	landing := routegate.LandingFor(mode, actor.Role.AdminTier())
	s.log.Info("mode selected",
		zap.String("actor_key", actor.Key),
		zap.String("mode", string(mode)),
		zap.String("landing", landing),
	)
	return domain.Result{Mode: mode, Landing: landing}, nil
}
