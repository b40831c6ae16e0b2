package service

import (
	"context"
	"strings"
	"sync"

	"github.com/smallbiznis/storefront/internal/businessmode/domain"
	"github.com/smallbiznis/storefront/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Repo  domain.Repository
	Clock clock.Clock `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	clock clock.Clock

	mu       sync.RWMutex
	active   domain.Mode
	actorKey string
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.NewSystemClock()
	}
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("businessmode.service"),
		repo:   p.Repo,
		clock:  clk,
		active: domain.ModeNone,
	}
}

func (s *Service) LoadModeForActor(ctx context.Context, actorKey string) (domain.Mode, error) {
	actorKey = strings.TrimSpace(actorKey)
	if actorKey == "" {
		// Loading under an empty key must not adopt the legacy record or
		// another actor's mode.
		return s.ActiveMode(), nil
	}

	record, err := s.repo.Find(ctx, s.db, domain.RecordKeyForActor(actorKey))
	if err != nil {
		return domain.ModeNone, err
	}
	if record != nil {
		mode := domain.ParseMode(record.Mode)
		s.activate(mode, actorKey)
		return mode, nil
	}

	legacy, err := s.repo.Find(ctx, s.db, domain.LegacyRecordKey)
	if err != nil {
		return domain.ModeNone, err
	}
	if legacy != nil {
		mode := domain.ParseMode(legacy.Mode)
		if mode.Selected() {
			// One-time migration: adopt the unkeyed record and write it
			// back under the actor key. The legacy record stays until an
			// explicit clear.
			if err := s.repo.Upsert(ctx, s.db, &domain.ModeRecord{
				RecordKey: domain.RecordKeyForActor(actorKey),
				Mode:      string(mode),
				UpdatedAt: s.clock.Now(),
			}); err != nil {
				return domain.ModeNone, err
			}
			s.log.Info("migrated legacy mode record",
				zap.String("actor_key", actorKey),
				zap.String("mode", string(mode)),
			)
			s.activate(mode, actorKey)
			return mode, nil
		}
	}

	s.activate(domain.ModeNone, actorKey)
	return domain.ModeNone, nil
}

func (s *Service) SetMode(ctx context.Context, mode domain.Mode, actorKey string) error {
	if mode != domain.ModeNone && mode != "" && !mode.Selected() {
		return domain.ErrInvalidMode
	}

	actorKey = strings.TrimSpace(actorKey)
	s.mu.Lock()
	if actorKey == "" {
		actorKey = s.actorKey
	}
	if mode == "" {
		mode = domain.ModeNone
	}
	s.active = mode
	s.actorKey = actorKey
	s.mu.Unlock()

	recordKey := domain.LegacyRecordKey
	if actorKey != "" {
		recordKey = domain.RecordKeyForActor(actorKey)
	}

	if !mode.Selected() {
		return s.repo.Delete(ctx, s.db, recordKey)
	}
	return s.repo.Upsert(ctx, s.db, &domain.ModeRecord{
		RecordKey: recordKey,
		Mode:      string(mode),
		UpdatedAt: s.clock.Now(),
	})
}

func (s *Service) ClearMode(ctx context.Context, actorKey string) error {
	actorKey = strings.TrimSpace(actorKey)

	s.mu.Lock()
	if actorKey == "" {
		actorKey = s.actorKey
	}
	// Only drop the in-memory pair when it belongs to the clearing actor;
	// another actor's request may have loaded since.
	if s.actorKey == actorKey {
		s.active = domain.ModeNone
		s.actorKey = ""
	}
	s.mu.Unlock()

	if actorKey != "" {
		if err := s.repo.Delete(ctx, s.db, domain.RecordKeyForActor(actorKey)); err != nil {
			return err
		}
	}
	// The legacy slot goes unconditionally so a later login cannot
	// resurrect a stale migration source.
	return s.repo.Delete(ctx, s.db, domain.LegacyRecordKey)
}

func (s *Service) ActiveMode() domain.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *Service) IsRetail() bool       { return s.ActiveMode() == domain.ModeRetail }
func (s *Service) IsSubscription() bool { return s.ActiveMode() == domain.ModeSubscription }
func (s *Service) IsFreemium() bool     { return s.ActiveMode() == domain.ModeFreemium }
func (s *Service) IsMulti() bool        { return s.ActiveMode() == domain.ModeMulti }

func (s *Service) activate(mode domain.Mode, actorKey string) {
	s.mu.Lock()
	s.active = mode
	s.actorKey = actorKey
	s.mu.Unlock()
}
