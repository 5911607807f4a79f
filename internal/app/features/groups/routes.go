// internal/app/features/groups/routes.go
package groups

import (
	"github.com/bracu-research/thesishub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Everything under /groups requires authentication.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		// LIST / VIEW
		pr.Get("/", h.ServeList)
		pr.Get("/mine", h.ServeMine)
		pr.Get("/{groupID}", h.ServeGet)

		// CREATE
		pr.Post("/", h.HandleCreate)

		// MEMBERSHIP: direct join
		pr.Patch("/{groupID}/join", h.HandleJoin)

		// MEMBERSHIP: admin-initiated invites
		pr.Post("/{groupID}/invite", h.HandleInvite)
		pr.Patch("/invite/{requestID}/accept", h.HandleInviteAccept)
		pr.Patch("/invite/{requestID}/reject", h.HandleInviteReject)

		// MEMBERSHIP: student-initiated requests
		pr.Post("/{groupID}/request-join", h.HandleRequestJoin)
		pr.Patch("/{groupID}/requests/{studentID}", h.HandleRequestDecide)
	})

	return r
}
