// internal/app/features/users/routes.go
package users

import (
	"github.com/bracu-research/thesishub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Registration and directory reads are open.
	r.Post("/", h.HandleRegister)
	r.Get("/", h.ServeList)
	r.Get("/code/{studentCode}", h.ServeGetByCode)
	r.Get("/{id}", h.ServeGet)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Patch("/{id}", h.HandleUpdate)
		pr.Patch("/{id}/notifications/seen", h.HandleNotificationsSeen)

		pr.Post("/{id}/bookmarks", h.HandleAddBookmark)
		pr.Get("/{id}/bookmarks", h.ServeBookmarks)
		pr.Delete("/{id}/bookmarks/{paperID}", h.HandleRemoveBookmark)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("admin"))

		pr.Delete("/{id}", h.HandleDelete)
		pr.Put("/{id}/supervisor", h.HandleAssignSupervisor)
		pr.Delete("/{id}/supervisor", h.HandleUnassignSupervisor)
	})

	return r
}
