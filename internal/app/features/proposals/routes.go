// internal/app/features/proposals/routes.go
package proposals

import (
	"github.com/bracu-research/thesishub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/", h.HandleSubmit)
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeGet)
		pr.Patch("/{id}/decision", h.HandleDecision)
		pr.Post("/{id}/feedback", h.HandleFeedback)
	})

	return r
}

// AdminRoutes mounts the admin override endpoints under /admin.
func AdminRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("admin"))

		pr.Patch("/assign-supervisor", h.HandleAdminAssign)
		pr.Patch("/reject-proposal", h.HandleAdminReject)
	})

	return r
}
