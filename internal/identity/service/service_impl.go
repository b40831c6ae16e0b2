package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/smallbiznis/storefront/internal/config"
	"github.com/smallbiznis/storefront/internal/identity/domain"
	"github.com/smallbiznis/storefront/internal/identity/token"
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
		log: p.Log.Named("identity.service"),
		client: &http.Client{
			Timeout: p.Cfg.IdentityTimeout,
		},
	}
}

func (s *Service) Resolve(ctx context.Context, rawToken string) domain.Actor {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return domain.Anonymous
	}

	if profile, err := s.resolveRemote(ctx, rawToken); err == nil {
		return s.actorFromProfile(profile)
	} else {
		// Transient backend failure: recover via the local decode path,
		// never surface this to the caller.
		s.log.Warn("remote identity resolution failed, falling back to local decode", zap.Error(err))
	}

	claims, err := token.Decode(rawToken, s.cfg.AuthJWTSecret)
	if err != nil {
		s.log.Warn("local token decode failed", zap.Error(err))
		return domain.Anonymous
	}
	return s.actorFromProfile(domain.Profile{
		ID:    claims.Subject,
		Email: claims.Email,
		Role:  claims.Role,
		Demo:  claims.Demo,
	})
}

func (s *Service) SwitchDemoRole(actor domain.Actor, role domain.Role) (domain.Actor, error) {
	if !actor.Demo {
		return actor, domain.ErrNotDemoActor
	}
	if role != domain.ParseRole(string(role)) {
		return actor, domain.ErrInvalidRole
	}
	actor.Role = role
	return actor, nil
}

func (s *Service) ActorKey(profile domain.Profile) string {
	id := strings.TrimSpace(profile.ID)
	email := strings.TrimSpace(profile.Email)
	if s.cfg.IdentityKeyPrecedence == config.KeyPrecedenceEmail {
		if email != "" {
			return email
		}
		return id
	}
	if id != "" {
		return id
	}
	return email
}

func (s *Service) resolveRemote(ctx context.Context, rawToken string) (domain.Profile, error) {
	if s.cfg.IdentityResolverURL == "" {
		return domain.Profile{}, domain.ErrInvalidToken
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.IdentityTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.IdentityResolverURL+"/auth/me", nil)
	if err != nil {
		return domain.Profile{}, err
	}
	req.Header.Set("Authorization", "Bearer "+rawToken)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.Profile{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Profile{}, fmt.Errorf("identity resolver returned status %d", resp.StatusCode)
	}

	var profile domain.Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}

func (s *Service) actorFromProfile(profile domain.Profile) domain.Actor {
	key := s.ActorKey(profile)
	if key == "" {
		return domain.Anonymous
	}
	return domain.Actor{
		Key:           key,
		Email:         strings.TrimSpace(profile.Email),
		Authenticated: true,
		Role:          domain.ParseRole(profile.Role),
		Demo:          profile.Demo,
	}
}
