package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/cms-backend/errs"
	"github.com/rpupo63/cms-backend/models"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

type PostRepo struct {
	db        *gorm.DB
	relations *RelationRepo
}

func NewPostRepo(db *gorm.DB, relations *RelationRepo) *PostRepo {
	return &PostRepo{db: db, relations: relations}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *PostRepo) GetDB() *gorm.DB {
	return r.db
}

// Find returns the page of posts matching filter, hydrated with relations
func (r *PostRepo) Find(ctx context.Context, filter models.PostFilter) ([]models.PostWithRelations, error) {
	posts, err := NewPostQuery(filter).Find(ctx, r.db)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "posts", err)
	}
	return posts, nil
}

// Count returns how many posts match filter, ignoring pagination
func (r *PostRepo) Count(ctx context.Context, filter models.PostFilter) (int64, error) {
	total, err := NewPostQuery(filter).Count(ctx, r.db)
	if err != nil {
		return 0, errs.NewDatabaseError("count", "posts", err)
	}
	return total, nil
}

// FindOne returns the single post matching filter or a not found error
func (r *PostRepo) FindOne(ctx context.Context, filter models.PostFilter) (*models.PostWithRelations, error) {
	post, err := findOne(ctx, r.db, filter)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "post", err)
	}
	return post, nil
}

// FindByID returns a post by its ID
func (r *PostRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.PostWithRelations, error) {
	return r.FindOne(ctx, models.PostFilter{ID: &id})
}

// FindBySlug returns a post by its slug
func (r *PostRepo) FindBySlug(ctx context.Context, slug string) (*models.PostWithRelations, error) {
	return r.FindOne(ctx, models.PostFilter{Slug: slug})
}

// Create inserts the post and its initial relations atomically
func (r *PostRepo) Create(ctx context.Context, post *models.Post, categoryIDs, tagIDs []uint) (*models.PostWithRelations, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return r.relations.WithTx(tx).AttachInitial(ctx, post.ID, categoryIDs, tagIDs, post.CreatedAt)
	})
	if err != nil {
		return nil, errs.NewDatabaseError("create", "post", err)
	}

	// read back from the primary, a replica may not have the row yet
	created, err := findOne(ctx, r.db.Clauses(dbresolver.Write), models.PostFilter{ID: &post.ID})
	if err != nil {
		return nil, errs.NewDatabaseError("find created", "post", err)
	}
	return created, nil
}

// Update applies changes to the post and, when supplied, replaces its
// relations. Everything happens in one transaction.
func (r *PostRepo) Update(ctx context.Context, id uuid.UUID, changes models.PostChanges) (*models.PostWithRelations, error) {
	columns := make(map[string]any, len(changes.Columns)+1)
	for k, v := range changes.Columns {
		columns[k] = v
	}
	if changes.PublishedAt != nil {
		if changes.KeepFirstPublishedAt {
			columns["published_at"] = gorm.Expr("COALESCE(published_at, ?)", *changes.PublishedAt)
		} else {
			columns["published_at"] = *changes.PublishedAt
		}
	}

	var updated *models.PostWithRelations
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(columns) > 0 {
			res := tx.Model(&models.Post{}).Where("id = ?", id).UpdateColumns(columns)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errs.NewNotFound("post")
			}
		} else if err := tx.Select("id").Where("id = ?", id).Take(&models.Post{}).Error; err != nil {
			return err
		}

		if err := r.relations.WithTx(tx).Replace(ctx, id, changes.CategoryIDs, changes.TagIDs, changes.At); err != nil {
			return err
		}

		var err error
		updated, err = findOne(ctx, tx, models.PostFilter{ID: &id})
		return err
	})
	if err != nil {
		return nil, errs.NewDatabaseError("update", "post", err)
	}
	return updated, nil
}

// IncrementViews adds one to view_count of the post matching filter and
// returns it with the new count. The increment is a relative update so
// concurrent readers never lose a view.
func (r *PostRepo) IncrementViews(ctx context.Context, filter models.PostFilter) (*models.PostWithRelations, error) {
	if filter.ID == nil && filter.Slug == "" {
		return nil, errs.NewBadRequestError("a post id or slug is required")
	}

	var viewed *models.PostWithRelations
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := NewPostQuery(filter).apply(tx.Model(&models.Post{})).
			UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NewNotFound("post")
		}

		var err error
		viewed, err = findOne(ctx, tx, filter)
		return err
	})
	if err != nil {
		return nil, errs.NewDatabaseError("record view of", "post", err)
	}
	return viewed, nil
}

// Delete removes a post and returns it as it was. Join rows cascade.
func (r *PostRepo) Delete(ctx context.Context, id uuid.UUID) (*models.PostWithRelations, error) {
	var deleted *models.PostWithRelations
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		deleted, err = findOne(ctx, tx, models.PostFilter{ID: &id})
		if err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NewNotFound("post")
		}
		return nil
	})
	if err != nil {
		return nil, errs.NewDatabaseError("delete", "post", err)
	}
	return deleted, nil
}

func findOne(ctx context.Context, db *gorm.DB, filter models.PostFilter) (*models.PostWithRelations, error) {
	filter.Limit, filter.Offset = 1, 0
	posts, err := NewPostQuery(filter).Find(ctx, db)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, errs.NewNotFound("post")
	}
	return &posts[0], nil
}
