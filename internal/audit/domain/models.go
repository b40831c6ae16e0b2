package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/storefront/pkg/db/pagination"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ActionModeSelected = "mode.selected"
	ActionModeCleared  = "mode.cleared"
	ActionGateDenied   = "gate.denied"
)

var ErrInvalidAction = errors.New("invalid_action")

type AuditLog struct {
	ID        snowflake.ID      `gorm:"column:id;primaryKey" json:"id"`
	ActorKey  string            `gorm:"column:actor_key" json:"actor_key"`
	Action    string            `gorm:"column:action" json:"action"`
	Metadata  datatypes.JSONMap `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt time.Time         `gorm:"column:created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

type Service interface {
	// Record writes an audit entry. Failures are logged by the
	// implementation and returned, but callers treat audit writes as
	// best-effort.
	Record(ctx context.Context, actorKey string, action string, metadata map[string]any) error

	// List pages through audit entries, newest first. An empty actorKey
	// lists across all actors.
	List(ctx context.Context, actorKey string, page pagination.Pagination) ([]AuditLog, *pagination.PageInfo, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditLog) error
	List(ctx context.Context, db *gorm.DB, actorKey string, cursor *pagination.Cursor, limit int) ([]AuditLog, error)
}
