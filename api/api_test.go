package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/cms-backend/database"
	"github.com/rpupo63/cms-backend/models"
	"github.com/rpupo63/cms-backend/services"
	"github.com/stretchr/testify/suite"
)

const testSecret = "test-secret"

type APISuite struct {
	suite.Suite
	db     database.Database
	router *chi.Mux
	token  string
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	gdb, err := database.Open(database.ConnectionConfig{
		Driver: database.DriverSQLite,
		DSN:    database.SQLiteDSN(filepath.Join(s.T().TempDir(), "api.db")),
	})
	s.Require().NoError(err)
	sqlDB, err := gdb.DB()
	s.Require().NoError(err)
	s.T().Cleanup(func() { sqlDB.Close() })

	s.db = database.New(gdb)
	s.Require().NoError(s.db.Migrate())

	var n atomic.Int64
	s.router = newRouter(s.db,
		withConfig(map[string]string{"ACCEPTED_ORIGINS": "https://site.example"}),
		withStartupTime(time.Now()),
		withJWTSecret(testSecret),
		withDeps(services.Deps{Disambiguator: func() string { return fmt.Sprintf("d%d", n.Add(1)) }}),
	)
	s.token = s.sign(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "editor",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
}

func (s *APISuite) sign(method jwt.SigningMethod, claims jwt.MapClaims) string {
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(testSecret))
	s.Require().NoError(err)
	return token
}

func (s *APISuite) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) admin(method, path string, body any) *httptest.ResponseRecorder {
	return s.do(method, path, body, s.token)
}

func (s *APISuite) decode(rec *httptest.ResponseRecorder, dst any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func (s *APISuite) createPost(body map[string]any) models.PostWithRelations {
	rec := s.admin(http.MethodPost, "/posts", body)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var post models.PostWithRelations
	s.decode(rec, &post)
	return post
}

func (s *APISuite) createCategory(name string) models.Category {
	rec := s.admin(http.MethodPost, "/categories", map[string]any{"name": name})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var category models.Category
	s.decode(rec, &category)
	return category
}

func (s *APISuite) TestAuthentication() {
	tests := []struct {
		name   string
		token  string
		status int
		error  string
	}{
		{"missing", "", http.StatusUnauthorized, "missing access token"},
		{"garbage", "not-a-jwt", http.StatusUnauthorized, "invalid access token"},
		{"expired", s.sign(jwt.SigningMethodHS256, jwt.MapClaims{"role": "admin", "exp": time.Now().Add(-time.Minute).Unix()}), http.StatusUnauthorized, "expired access token"},
		{"no expiry", s.sign(jwt.SigningMethodHS256, jwt.MapClaims{"role": "admin"}), http.StatusUnauthorized, "invalid access token"},
		{"other algorithm", s.sign(jwt.SigningMethodHS512, jwt.MapClaims{"role": "admin", "exp": time.Now().Add(time.Hour).Unix()}), http.StatusUnauthorized, "invalid access token"},
		{"not admin", s.sign(jwt.SigningMethodHS256, jwt.MapClaims{"role": "reader", "exp": time.Now().Add(time.Hour).Unix()}), http.StatusForbidden, "insufficient role"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.do(http.MethodGet, "/posts", nil, tt.token)

			s.Equal(tt.status, rec.Code)
			var body ErrorResponse
			s.decode(rec, &body)
			s.Contains(body.Error, tt.error)
			s.Equal("error", body.Status)
		})
	}
}

func (s *APISuite) TestAuthCookie() {
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.AddCookie(&http.Cookie{Name: authCookieName, Value: s.token})
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code, rec.Body.String())
}

func (s *APISuite) TestPublicRoutesNeedNoToken() {
	for _, path := range []string{"/public/posts", "/public/posts/featured", "/public/categories", "/public/tags", "/public/metadata", "/healthz"} {
		rec := s.do(http.MethodGet, path, nil, "")
		s.Equal(http.StatusOK, rec.Code, path)
		s.Equal("application/json; charset=utf-8", rec.Header().Get("Content-Type"), path)
	}
}

func (s *APISuite) TestCORSPreflight() {
	req := httptest.NewRequest(http.MethodOptions, "/posts", nil)
	req.Header.Set("Origin", "https://site.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal("https://site.example", rec.Header().Get("Access-Control-Allow-Origin"))
	s.Equal("true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func (s *APISuite) TestPostLifecycle() {
	category := s.createCategory("Go Tips")
	s.Equal("go-tips", category.Slug)

	post := s.createPost(map[string]any{
		"title":       "Hello World",
		"content":     "<p>First <em>post</em></p>",
		"categoryIds": []uint{category.ID},
	})
	s.Equal("hello-world-d1", post.Slug)
	s.Equal(models.PostStatusDraft, post.Status)
	s.Require().Len(post.Categories, 1)
	s.Equal(category.ID, post.Categories[0].ID)
	s.NotNil(post.Tags)

	rec := s.do(http.MethodGet, "/public/posts/"+post.Slug, nil, "")
	s.Equal(http.StatusNotFound, rec.Code, "drafts stay private")

	rec = s.admin(http.MethodPost, "/posts/"+post.ID.String()+"/publish", nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var viewed models.PostWithRelations
	for i := 0; i < 3; i++ {
		rec = s.do(http.MethodGet, "/public/posts/"+post.Slug, nil, "")
		s.Require().Equal(http.StatusOK, rec.Code)
	}
	s.decode(rec, &viewed)
	s.EqualValues(3, viewed.ViewCount)
	s.Require().NotNil(viewed.PublishedAt)
	s.False(viewed.PublishedAt.Before(viewed.CreatedAt))
	s.Equal("First post", *viewed.Excerpt)

	rec = s.do(http.MethodGet, fmt.Sprintf("/public/posts?categoryId=%d", category.ID), nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var page services.PostPage
	s.decode(rec, &page)
	s.EqualValues(1, page.Total)
	s.Equal(post.ID, page.Posts[0].ID)

	rec = s.admin(http.MethodGet, "/posts/slug/"+post.Slug, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var bySlug models.PostWithRelations
	s.decode(rec, &bySlug)
	s.EqualValues(3, bySlug.ViewCount, "admin reads are not counted")

	rec = s.admin(http.MethodDelete, "/posts/"+post.ID.String(), nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var deleted models.PostWithRelations
	s.decode(rec, &deleted)
	s.Equal(post.ID, deleted.ID)

	rec = s.admin(http.MethodGet, "/posts/"+post.ID.String(), nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestUpdatePostRelations() {
	one := s.createCategory("One")
	two := s.createCategory("Two")
	post := s.createPost(map[string]any{"title": "Linked", "content": "body", "categoryIds": []uint{one.ID}})

	rec := s.admin(http.MethodPut, "/posts/"+post.ID.String(), map[string]any{"categoryIds": []uint{two.ID}})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var updated models.PostWithRelations
	s.decode(rec, &updated)
	s.Require().Len(updated.Categories, 1)
	s.Equal(two.ID, updated.Categories[0].ID)
	s.Equal("Linked", updated.Title)

	rec = s.admin(http.MethodPut, "/posts/"+post.ID.String(), map[string]any{"categoryIds": []uint{}})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &updated)
	s.Empty(updated.Categories)
}

func (s *APISuite) TestCreatePostValidation() {
	tests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"missing title", map[string]any{"content": "x"}, "title"},
		{"missing content", map[string]any{"title": "x"}, "content"},
		{"bad status", map[string]any{"title": "x", "content": "x", "status": "LIVE"}, "status"},
		{"bad image url", map[string]any{"title": "x", "content": "x", "featuredImageUrl": "not a url"}, "featuredImageUrl"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.admin(http.MethodPost, "/posts", tt.body)

			s.Equal(http.StatusBadRequest, rec.Code)
			var body ErrorResponse
			s.decode(rec, &body)
			s.Equal(tt.field, body.Field)
		})
	}
}

func (s *APISuite) TestCreatePostWithUnknownCategory() {
	rec := s.admin(http.MethodPost, "/posts", map[string]any{"title": "x", "content": "x", "categoryIds": []uint{999}})

	s.Equal(http.StatusBadRequest, rec.Code, rec.Body.String())
	rec = s.admin(http.MethodGet, "/posts", nil)
	var page services.PostPage
	s.decode(rec, &page)
	s.Zero(page.Total)
}

func (s *APISuite) TestMalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+s.token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestListQueryValidation() {
	for _, query := range []string{"sortBy=views", "sortOrder=sideways", "limit=ten", "offset=-1", "categoryId=abc"} {
		rec := s.admin(http.MethodGet, "/posts?"+query, nil)
		s.Equal(http.StatusBadRequest, rec.Code, query)
	}
}

func (s *APISuite) TestInvalidPostID() {
	rec := s.admin(http.MethodGet, "/posts/not-a-uuid", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestCategoryCRUD() {
	category := s.createCategory("Web Dev")

	rec := s.admin(http.MethodPost, "/categories", map[string]any{"name": "web   dev"})
	s.Equal(http.StatusConflict, rec.Code, "same slug")

	rec = s.admin(http.MethodPut, fmt.Sprintf("/categories/%d", category.ID), map[string]any{"name": "Backend", "description": "servers"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Category
	s.decode(rec, &updated)
	s.Equal("backend", updated.Slug)
	s.Equal("servers", *updated.Description)

	rec = s.admin(http.MethodDelete, fmt.Sprintf("/categories/%d", category.ID), nil)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.admin(http.MethodGet, fmt.Sprintf("/categories/%d", category.ID), nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestTagCRUD() {
	rec := s.admin(http.MethodPost, "/tags", map[string]any{"name": "Concurrency"})
	s.Require().Equal(http.StatusCreated, rec.Code)
	var tag models.Tag
	s.decode(rec, &tag)
	s.Equal("concurrency", tag.Slug)

	rec = s.admin(http.MethodPost, "/tags", map[string]any{"name": "Concurrency"})
	s.Equal(http.StatusConflict, rec.Code)

	rec = s.do(http.MethodGet, "/public/tags", nil, "")
	var tags []models.Tag
	s.decode(rec, &tags)
	s.Len(tags, 1)

	rec = s.admin(http.MethodDelete, fmt.Sprintf("/tags/%d", tag.ID), nil)
	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *APISuite) TestSettingsAndMetadata() {
	rec := s.admin(http.MethodPut, "/settings", map[string]string{"email": "hi@example.com", "theme": "dark"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = s.admin(http.MethodGet, "/settings/theme", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var theme models.Setting
	s.decode(rec, &theme)
	s.Equal("dark", theme.Value)

	rec = s.do(http.MethodGet, "/public/metadata", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var metadata map[string]string
	s.decode(rec, &metadata)
	s.Equal(map[string]string{"about": "", "address": "", "email": "hi@example.com", "phone_number": ""}, metadata)

	rec = s.admin(http.MethodGet, "/settings/missing", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestFeatured() {
	image := "https://cdn.example/cover.png"
	post := s.createPost(map[string]any{"title": "Cover", "content": "x", "status": "PUBLISHED", "featuredImageUrl": image})
	s.createPost(map[string]any{"title": "Plain", "content": "x", "status": "PUBLISHED"})

	rec := s.do(http.MethodGet, "/public/posts/featured", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var featured []models.PostWithRelations
	s.decode(rec, &featured)
	s.Require().Len(featured, 1)
	s.Equal(post.ID, featured[0].ID)
}

func (s *APISuite) TestNewServerRequiresSecret() {
	_, err := NewServer(s.db, "")
	s.Error(err)
}
