package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	syncdomain "github.com/feedsync/backend/internal/domain/sync"
	"github.com/feedsync/backend/internal/infrastructure/persistence/models"
)

// globalConfigID pins the credential record to a single row.
const globalConfigID = 1

// SyncConfigRepository stores the global credential record.
type SyncConfigRepository struct {
	db *gorm.DB
}

func NewSyncConfigRepository(db *Database) *SyncConfigRepository {
	return &SyncConfigRepository{db: db.DB}
}

var _ syncdomain.ConfigStore = (*SyncConfigRepository)(nil)

// Get returns the stored record, or nil when none was saved yet.
func (r *SyncConfigRepository) Get(ctx context.Context) (*syncdomain.Config, error) {
	var model models.SyncConfigModel
	err := r.db.WithContext(ctx).First(&model, globalConfigID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &syncdomain.Config{
		StoreURL:   model.StoreURL,
		AdminToken: model.AdminToken,
		FeedURL:    model.FeedURL,
	}, nil
}

// Save replaces the stored record.
func (r *SyncConfigRepository) Save(ctx context.Context, cfg syncdomain.Config) error {
	model := models.SyncConfigModel{
		ID:         globalConfigID,
		StoreURL:   cfg.StoreURL,
		AdminToken: cfg.AdminToken,
		FeedURL:    cfg.FeedURL,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"store_url", "admin_token", "feed_url", "updated_at"}),
		}).
		Create(&model).Error
}
