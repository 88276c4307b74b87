package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts every public and admin endpoint.
func setupRoutes(r chi.Router, handlers *routeHandlers, m authMiddleware) {
	r.Get("/health", handlers.health.check())

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", handlers.auth.login())

		r.Group(func(r chi.Router) {
			r.Use(m.authenticate)
			r.Get("/me", handlers.auth.me())
			r.Post("/change-password", handlers.auth.changePassword())
		})
	})

	r.Route("/api/stories", func(r chi.Router) {
		r.Get("/", handlers.story.listPublished())
		r.Get("/popular", handlers.story.popular())

		r.Group(func(r chi.Router) {
			r.Use(m.authenticate, m.requireAdmin)
			r.Get("/admin", handlers.story.listAdmin())
			r.Get("/admin/{identifier}", handlers.story.getAdmin())
			r.Post("/", handlers.story.create())
			r.Put("/{identifier}", handlers.story.update())
			r.Delete("/{identifier}", handlers.story.delete())
		})

		r.Get("/{identifier}", handlers.story.getPublished())

		r.Group(func(r chi.Router) {
			r.Use(m.optionalAuthenticate)
			r.Post("/{identifier}/like", handlers.story.like())
			r.Post("/{identifier}/comments", handlers.story.addComment())
			r.Post("/{identifier}/comments/{commentID}/replies", handlers.story.addReply())
		})
	})

	r.Route("/api/gallery", func(r chi.Router) {
		r.Get("/", handlers.gallery.listActive())
		r.Get("/instagram", handlers.gallery.instagram())

		r.Group(func(r chi.Router) {
			r.Use(m.authenticate, m.requireAdmin)
			r.Get("/admin", handlers.gallery.listAdmin())
			r.Post("/upload", handlers.gallery.upload())
			r.Put("/reorder", handlers.gallery.reorder())
			r.Put("/{id}", handlers.gallery.update())
			r.Delete("/{id}", handlers.gallery.delete())
		})

		r.Get("/{id}", handlers.gallery.get())
		r.With(m.optionalAuthenticate).Post("/{id}/like", handlers.gallery.like())
	})

	r.Route("/api/settings", func(r chi.Router) {
		r.Get("/", handlers.settings.public())

		r.Group(func(r chi.Router) {
			r.Use(m.authenticate, m.requireAdmin)
			r.Get("/admin", handlers.settings.admin())
			r.Put("/", handlers.settings.update())
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(m.authenticate, m.requireAdmin)
		r.Get("/dashboard", handlers.dashboard.stats())
		r.Get("/comments", handlers.comment.list())
		r.Put("/comments/{id}", handlers.comment.moderate())
		r.Delete("/comments/{id}", handlers.comment.delete())
	})
}
