// internal/app/features/users/list.go
package users

import (
	"context"
	"net/http"

	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"github.com/bracu-research/thesishub/internal/app/system/normalize"
	"github.com/bracu-research/thesishub/internal/app/system/timeouts"
	"github.com/bracu-research/thesishub/internal/domain/models"
	"go.uber.org/zap"
)

// ServeList handles GET /users?role=&interest=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	role := normalize.Role(r.URL.Query().Get("role"))
	interest := normalize.QueryParam(r.URL.Query().Get("interest"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if role != "" {
		users, err := h.Users.ListByRole(ctx, role, interest)
		if err != nil {
			h.Log.Error("users: list failed", zap.Error(err))
			jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
			return
		}
		jsonapi.OK(w, users)
		return
	}

	// No role filter: concatenate every role rather than exposing an
	// unfiltered collection scan helper on the store.
	out := []models.User{}
	for _, role := range []string{models.RoleStudent, models.RoleSupervisor, models.RoleAdmin} {
		users, err := h.Users.ListByRole(ctx, role, interest)
		if err != nil {
			h.Log.Error("users: list failed", zap.Error(err))
			jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
			return
		}
		out = append(out, users...)
	}
	jsonapi.OK(w, out)
}
