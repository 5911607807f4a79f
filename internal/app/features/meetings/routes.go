// internal/app/features/meetings/routes.go
package meetings

import (
	"github.com/bracu-research/thesishub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeGet)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("supervisor"))

		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Patch("/{id}/status", h.HandleStatus)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
