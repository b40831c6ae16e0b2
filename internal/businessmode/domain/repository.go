package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// Find returns the record stored under recordKey, or nil when absent.
	Find(ctx context.Context, db *gorm.DB, recordKey string) (*ModeRecord, error)
	Upsert(ctx context.Context, db *gorm.DB, record *ModeRecord) error
	Delete(ctx context.Context, db *gorm.DB, recordKey string) error
}
