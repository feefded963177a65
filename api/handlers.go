package api

import (
	"time"

	"github.com/rpupo63/cms-backend/database"
	"github.com/rpupo63/cms-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, posts *services.PostService, now func() time.Time, startupTime time.Time) *routeHandlers {
	validator := newRequestValidator()

	return &routeHandlers{
		postHandler:     newPostHandler(posts, validator),
		publicHandler:   newPublicHandler(posts, database, validator),
		categoryHandler: newCategoryHandler(database.CategoryRepo(), validator, now),
		tagHandler:      newTagHandler(database.TagRepo(), validator, now),
		settingHandler:  newSettingHandler(database.SettingRepo()),
		healthHandler:   newHealthHandler(database, startupTime),
	}
}
