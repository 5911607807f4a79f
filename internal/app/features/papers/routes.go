// internal/app/features/papers/routes.go
package papers

import "github.com/go-chi/chi/v5"

// Routes mounts at the API root: the endpoints are top-level paths.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/search-papers", h.ServeSearch)
	r.Get("/random-papers", h.ServeRandom)
	return r
}
