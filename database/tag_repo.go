package database

import (
	"context"

	"github.com/rpupo63/cms-backend/errs"
	"github.com/rpupo63/cms-backend/models"
	"gorm.io/gorm"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *TagRepo) GetDB() *gorm.DB {
	return r.db
}

// FindAll returns all tags, oldest first
func (r *TagRepo) FindAll(ctx context.Context) ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&tags).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "tags", err)
	}
	return tags, nil
}

func (r *TagRepo) FindByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "tag", err)
	}
	return &tag, nil
}

// Add inserts a new tag. Name and slug are both unique.
func (r *TagRepo) Add(ctx context.Context, tag *models.Tag) error {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		return errs.NewDatabaseError("create", "tag", err)
	}
	return nil
}

func (r *TagRepo) Update(ctx context.Context, tag *models.Tag) error {
	res := r.db.WithContext(ctx).Model(&models.Tag{}).
		Where("id = ?", tag.ID).
		Updates(map[string]any{"name": tag.Name, "slug": tag.Slug})
	if res.Error != nil {
		return errs.NewDatabaseError("update", "tag", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("tag")
	}
	return nil
}

// Delete removes a tag by id; its post links cascade
func (r *TagRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Tag{}, id)
	if res.Error != nil {
		return errs.NewDatabaseError("delete", "tag", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("tag")
	}
	return nil
}
