package api

import (
	"github.com/go-chi/chi/v5"
)

// setupPublicRoutes mounts the read-only surface that needs no token
func setupPublicRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/healthz", handlers.healthHandler.healthz())

	r.Route("/public", func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/posts", handlers.publicHandler.listPosts())
		r.Get("/posts/featured", handlers.publicHandler.featuredPosts())
		r.Get("/posts/{slug}", handlers.publicHandler.getPost())
		r.Get("/categories", handlers.publicHandler.listCategories())
		r.Get("/tags", handlers.publicHandler.listTags())
		r.Get("/metadata", handlers.publicHandler.getMetadata())
	})
}

// setupAdminRoutes mounts the content management surface behind authentication
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.authenticate)

		// Post endpoints
		r.Get("/posts", handlers.postHandler.listPosts())
		r.Post("/posts", handlers.postHandler.createPost())
		r.Get("/posts/slug/{slug}", handlers.postHandler.getPostBySlug())
		r.Get("/posts/{postID}", handlers.postHandler.getPost())
		r.Put("/posts/{postID}", handlers.postHandler.updatePost())
		r.Post("/posts/{postID}/publish", handlers.postHandler.publishPost())
		r.Delete("/posts/{postID}", handlers.postHandler.deletePost())

		// Category endpoints
		r.Get("/categories", handlers.categoryHandler.getAllCategories())
		r.Post("/categories", handlers.categoryHandler.createCategory())
		r.Get("/categories/{categoryID}", handlers.categoryHandler.getCategory())
		r.Put("/categories/{categoryID}", handlers.categoryHandler.updateCategory())
		r.Delete("/categories/{categoryID}", handlers.categoryHandler.deleteCategory())

		// Tag endpoints
		r.Get("/tags", handlers.tagHandler.getAllTags())
		r.Post("/tags", handlers.tagHandler.createTag())
		r.Get("/tags/{tagID}", handlers.tagHandler.getTag())
		r.Put("/tags/{tagID}", handlers.tagHandler.updateTag())
		r.Delete("/tags/{tagID}", handlers.tagHandler.deleteTag())

		// Setting endpoints
		r.Get("/settings", handlers.settingHandler.getAllSettings())
		r.Get("/settings/{key}", handlers.settingHandler.getSetting())
		r.Put("/settings", handlers.settingHandler.updateSettings())
	})
}
