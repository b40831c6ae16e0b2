package repository

import (
	"context"

	"github.com/smallbiznis/storefront/internal/audit/domain"
	"github.com/smallbiznis/storefront/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.AuditLog) error {
	if entry == nil {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO audit_logs (id, actor_key, action, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.ID,
		entry.ActorKey,
		entry.Action,
		entry.Metadata,
		entry.CreatedAt,
	).Error
}

// List fetches one row beyond limit so the caller can tell whether more pages
// remain.
func (r *repo) List(ctx context.Context, db *gorm.DB, actorKey string, cursor *pagination.Cursor, limit int) ([]domain.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}

	query := db.WithContext(ctx).
		Model(&domain.AuditLog{}).
		Order("created_at desc, id desc").
		Limit(limit + 1)

	if actorKey != "" {
		query = query.Where("actor_key = ?", actorKey)
	}
	if cursor != nil && cursor.CreatedAt != "" && cursor.ID != "" {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var logs []domain.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
