// internal/app/features/announcements/routes.go
package announcements

import (
	"github.com/bracu-research/thesishub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("admin"))
		pr.Post("/", h.HandleCreate)
	})

	return r
}
