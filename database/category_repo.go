package database

import (
	"context"

	"github.com/rpupo63/cms-backend/errs"
	"github.com/rpupo63/cms-backend/models"
	"gorm.io/gorm"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *CategoryRepo) GetDB() *gorm.DB {
	return r.db
}

// FindAll returns all categories ordered by name
func (r *CategoryRepo) FindAll(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "categories", err)
	}
	return categories, nil
}

// FindByID returns a category by its ID
func (r *CategoryRepo) FindByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "category", err)
	}
	return &category, nil
}

// FindBySlug returns a category by its slug
func (r *CategoryRepo) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "category", err)
	}
	return &category, nil
}

// Add inserts a new category. A taken slug is reported as a conflict.
func (r *CategoryRepo) Add(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return errs.NewDatabaseError("create", "category", err)
	}
	return nil
}

// Update writes name, slug and description of an existing category
func (r *CategoryRepo) Update(ctx context.Context, category *models.Category) error {
	res := r.db.WithContext(ctx).Model(&models.Category{}).
		Where("id = ?", category.ID).
		Updates(map[string]any{
			"name":        category.Name,
			"slug":        category.Slug,
			"description": category.Description,
		})
	if res.Error != nil {
		return errs.NewDatabaseError("update", "category", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("category")
	}
	return nil
}

// Delete removes a category by id; its post links cascade
func (r *CategoryRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return errs.NewDatabaseError("delete", "category", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("category")
	}
	return nil
}
