package service

import (
	"net/http"

	"github.com/smallbiznis/storefront/internal/advisor/domain"
	"github.com/smallbiznis/storefront/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg config.Config
	Log *zap.Logger
}

type Service struct {
	cfg    config.Config
	log    *zap.Logger
	client *http.Client
}

func New(p Params) domain.Service {
	return &Service{
		cfg: p.Cfg,
		log: p.Log.Named("advisor.service"),
		client: &http.Client{
			Timeout: p.Cfg.AdvisorTimeout,
		},
	}
}
