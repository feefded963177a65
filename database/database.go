package database

import (
	"context"

	"github.com/rpupo63/cms-backend/errs"
	"github.com/rpupo63/cms-backend/models"
	"gorm.io/gorm"
)

type Database struct {
	db           *gorm.DB
	postRepo     *PostRepo
	relationRepo *RelationRepo
	categoryRepo *CategoryRepo
	tagRepo      *TagRepo
	settingRepo  *SettingRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	relationRepo := NewRelationRepo(db)
	return Database{
		db:           db,
		postRepo:     NewPostRepo(db, relationRepo),
		relationRepo: relationRepo,
		categoryRepo: NewCategoryRepo(db),
		tagRepo:      NewTagRepo(db),
		settingRepo:  NewSettingRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) PostRepo() *PostRepo {
	return d.postRepo
}

func (d Database) RelationRepo() *RelationRepo {
	return d.relationRepo
}

func (d Database) CategoryRepo() *CategoryRepo {
	return d.categoryRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) SettingRepo() *SettingRepo {
	return d.settingRepo
}

// Migrate brings the schema up to date with the models
func (d Database) Migrate() error {
	if err := models.Migrate(d.db); err != nil {
		return errs.NewDatabaseError("migrate", "schema", err)
	}
	return nil
}

// Ping checks that the store answers
func (d Database) Ping(ctx context.Context) error {
	var result int
	if err := d.db.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error; err != nil {
		return errs.NewDatabaseError("ping", "database", err)
	}
	return nil
}
