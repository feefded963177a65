package database

import (
	"context"
	"sort"

	"github.com/rpupo63/cms-backend/errs"
	"github.com/rpupo63/cms-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepo struct {
	db *gorm.DB
}

func NewSettingRepo(db *gorm.DB) *SettingRepo {
	return &SettingRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *SettingRepo) GetDB() *gorm.DB {
	return r.db
}

func (r *SettingRepo) FindAll(ctx context.Context) ([]models.Setting, error) {
	settings := []models.Setting{}
	if err := r.db.WithContext(ctx).Order("id").Find(&settings).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "settings", err)
	}
	return settings, nil
}

func (r *SettingRepo) FindByKey(ctx context.Context, key string) (*models.Setting, error) {
	var setting models.Setting
	if err := r.db.WithContext(ctx).Where("id = ?", key).First(&setting).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "setting", err)
	}
	return &setting, nil
}

// FindByKeys returns the settings present among keys; missing keys are skipped
func (r *SettingRepo) FindByKeys(ctx context.Context, keys []string) ([]models.Setting, error) {
	settings := []models.Setting{}
	if len(keys) == 0 {
		return settings, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", keys).Order("id").Find(&settings).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "settings", err)
	}
	return settings, nil
}

// Upsert writes every key/value pair in one transaction
func (r *SettingRepo) Upsert(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	settings := make([]models.Setting, 0, len(keys))
	for _, k := range keys {
		settings = append(settings, models.Setting{ID: k, Value: values[k]})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).Create(&settings).Error
	})
	if err != nil {
		return errs.NewDatabaseError("update", "settings", err)
	}
	return nil
}
