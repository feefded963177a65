package database

import (
	"context"
	"testing"

	"github.com/rpupo63/cms-backend/errs"
	"github.com/rpupo63/cms-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepo(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()
	cats := seedCategories(t, d, "zeta", "alpha")

	t.Run("lists by name", func(t *testing.T) {
		all, err := d.CategoryRepo().FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "alpha", all[0].Name)
		assert.Equal(t, "zeta", all[1].Name)
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		err := d.CategoryRepo().Add(ctx, &models.Category{Name: "other", Slug: "zeta"})
		assert.True(t, errs.IsConflict(err), "got %v", err)
	})

	t.Run("updates in place", func(t *testing.T) {
		changed := cats[0]
		changed.Name = "Zeta Reloaded"
		changed.Description = ptr("last letter")
		require.NoError(t, d.CategoryRepo().Update(ctx, &changed))

		got, err := d.CategoryRepo().FindBySlug(ctx, "zeta")
		require.NoError(t, err)
		assert.Equal(t, "Zeta Reloaded", got.Name)
		require.NotNil(t, got.Description)
		assert.Equal(t, "last letter", *got.Description)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := d.CategoryRepo().FindByID(ctx, 404)
		assert.True(t, errs.IsNotFound(err))

		err = d.CategoryRepo().Update(ctx, &models.Category{ID: 404, Name: "x", Slug: "x"})
		assert.True(t, errs.IsNotFound(err))

		err = d.CategoryRepo().Delete(ctx, 404)
		assert.True(t, errs.IsNotFound(err))
	})

	t.Run("delete unlinks posts", func(t *testing.T) {
		post := createPost(t, d, newPost("linked"), categoryIDs(cats), nil)

		require.NoError(t, d.CategoryRepo().Delete(ctx, cats[1].ID))

		got, err := d.PostRepo().FindByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{cats[0].ID}, categoryIDs(got.Categories))
	})
}

func TestTagRepo(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()
	tags := seedTags(t, d, "newer-name", "another")

	all, err := d.TagRepo().FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, tagIDs(tags), tagIDs(all), "tags list in creation order")

	err = d.TagRepo().Add(ctx, &models.Tag{Name: "another", Slug: "fresh-slug"})
	assert.True(t, errs.IsConflict(err), "tag names are unique")

	renamed := tags[1]
	renamed.Name = "renamed"
	require.NoError(t, d.TagRepo().Update(ctx, &renamed))
	got, err := d.TagRepo().FindByID(ctx, renamed.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)

	post := createPost(t, d, newPost("tagged"), nil, tagIDs(tags))
	require.NoError(t, d.TagRepo().Delete(ctx, tags[0].ID))

	after, err := d.PostRepo().FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{tags[1].ID}, tagIDs(after.Tags))

	assert.True(t, errs.IsNotFound(d.TagRepo().Delete(ctx, tags[0].ID)))
}

func TestSettingRepo(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()
	repo := d.SettingRepo()

	require.NoError(t, repo.Upsert(ctx, map[string]string{"email": "a@example.com", "phone_number": "555"}))
	require.NoError(t, repo.Upsert(ctx, map[string]string{"email": "b@example.com"}))

	email, err := repo.FindByKey(ctx, "email")
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", email.Value)

	subset, err := repo.FindByKeys(ctx, models.MetadataKeys)
	require.NoError(t, err)
	require.Len(t, subset, 2)
	assert.Equal(t, "email", subset[0].ID)
	assert.Equal(t, "phone_number", subset[1].ID)

	_, err = repo.FindByKey(ctx, "address")
	assert.True(t, errs.IsNotFound(err))

	empty, err := repo.FindByKeys(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
