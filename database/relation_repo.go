package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/cms-backend/errs"
	"github.com/rpupo63/cms-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RelationRepo maintains the post_categories and post_tags join tables
type RelationRepo struct {
	db *gorm.DB
}

func NewRelationRepo(db *gorm.DB) *RelationRepo {
	return &RelationRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *RelationRepo) GetDB() *gorm.DB {
	return r.db
}

// WithTx binds the repository to an open transaction
func (r *RelationRepo) WithTx(tx *gorm.DB) *RelationRepo {
	return &RelationRepo{tx}
}

// AttachInitial links a freshly created post. Nothing is deleted first.
func (r *RelationRepo) AttachInitial(ctx context.Context, postID uuid.UUID, categoryIDs, tagIDs []uint, at time.Time) error {
	if len(categoryIDs) == 0 && len(tagIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insertCategories(tx, postID, categoryIDs, at); err != nil {
			return err
		}
		return insertTags(tx, postID, tagIDs, at)
	})
}

// Replace swaps the full relation sets of a post. A nil set is left as is, a
// non-nil empty set is cleared. Both sets change in one transaction or not at all.
func (r *RelationRepo) Replace(ctx context.Context, postID uuid.UUID, categoryIDs, tagIDs *[]uint, at time.Time) error {
	if categoryIDs == nil && tagIDs == nil {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if categoryIDs != nil {
			if err := tx.Where("post_id = ?", postID).Delete(&models.PostCategory{}).Error; err != nil {
				return err
			}
			if err := insertCategories(tx, postID, *categoryIDs, at); err != nil {
				return err
			}
		}
		if tagIDs != nil {
			if err := tx.Where("post_id = ?", postID).Delete(&models.PostTag{}).Error; err != nil {
				return err
			}
			if err := insertTags(tx, postID, *tagIDs, at); err != nil {
				return err
			}
		}
		return nil
	})
}

// CategoryIDs lists the categories linked to a post in ascending order
func (r *RelationRepo) CategoryIDs(ctx context.Context, postID uuid.UUID) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.PostCategory{}).
		Where("post_id = ?", postID).
		Order("category_id").
		Pluck("category_id", &ids).Error
	if err != nil {
		return nil, errs.NewDatabaseError("find", "post categories", err)
	}
	return ids, nil
}

// TagIDs lists the tags linked to a post in ascending order
func (r *RelationRepo) TagIDs(ctx context.Context, postID uuid.UUID) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.PostTag{}).
		Where("post_id = ?", postID).
		Order("tag_id").
		Pluck("tag_id", &ids).Error
	if err != nil {
		return nil, errs.NewDatabaseError("find", "post tags", err)
	}
	return ids, nil
}

func insertCategories(tx *gorm.DB, postID uuid.UUID, ids []uint, at time.Time) error {
	ids = distinct(ids)
	if len(ids) == 0 {
		return nil
	}
	rows := make([]models.PostCategory, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.PostCategory{PostID: postID, CategoryID: id, CreatedAt: at})
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}

func insertTags(tx *gorm.DB, postID uuid.UUID, ids []uint, at time.Time) error {
	ids = distinct(ids)
	if len(ids) == 0 {
		return nil
	}
	rows := make([]models.PostTag, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.PostTag{PostID: postID, TagID: id, CreatedAt: at})
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}

// distinct keeps the first occurrence of every id
func distinct(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
