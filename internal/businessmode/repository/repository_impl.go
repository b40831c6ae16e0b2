package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/storefront/internal/businessmode/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, recordKey string) (*domain.ModeRecord, error) {
	var record domain.ModeRecord
	err := db.WithContext(ctx).
		Where("record_key = ?", recordKey).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, record *domain.ModeRecord) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"mode", "updated_at"}),
		}).
		Create(record).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, recordKey string) error {
	return db.WithContext(ctx).
		Where("record_key = ?", recordKey).
		Delete(&domain.ModeRecord{}).Error
}
