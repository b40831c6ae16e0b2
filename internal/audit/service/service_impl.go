package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/storefront/internal/audit/domain"
	"github.com/smallbiznis/storefront/internal/clock"
	"github.com/smallbiznis/storefront/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  auditdomain.Repository
	Clock clock.Clock `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  auditdomain.Repository
	clock clock.Clock
}

func NewService(p Params) auditdomain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.NewSystemClock()
	}
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: clk,
	}
}

func (s *Service) Record(ctx context.Context, actorKey string, action string, metadata map[string]any) error {
	action = strings.TrimSpace(action)
	if action == "" {
		return auditdomain.ErrInvalidAction
	}

	payload := datatypes.JSONMap{}
	for k, v := range metadata {
		payload[k] = v
	}

	entry := auditdomain.AuditLog{
		ID:        s.genID.Generate(),
		ActorKey:  strings.TrimSpace(actorKey),
		Action:    action,
		Metadata:  payload,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, s.db, &entry); err != nil {
		s.log.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, actorKey string, page pagination.Pagination) ([]auditdomain.AuditLog, *pagination.PageInfo, error) {
	limit := page.PageSize
	if limit <= 0 {
		limit = 10
	}
	if limit > 250 {
		limit = 250
	}

	var cursor *pagination.Cursor
	if strings.TrimSpace(page.PageToken) != "" {
		decoded, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, nil, err
		}
		cursor = decoded
	}

	logs, err := s.repo.List(ctx, s.db, strings.TrimSpace(actorKey), cursor, limit)
	if err != nil {
		return nil, nil, err
	}

	hasMore := len(logs) > limit
	if hasMore {
		logs = logs[:limit]
	}

	info := &pagination.PageInfo{HasMore: hasMore}
	if hasMore && len(logs) > 0 {
		last := logs[len(logs)-1]
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        last.ID.String(),
			CreatedAt: last.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return nil, nil, err
		}
		info.NextPageToken = token
	}

	return logs, info, nil
}
