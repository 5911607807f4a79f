// internal/app/features/groups/list.go
package groups

import (
	"context"
	"net/http"

	"github.com/bracu-research/thesishub/internal/app/system/gates"
	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"github.com/bracu-research/thesishub/internal/app/system/normalize"
	"github.com/bracu-research/thesishub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeList handles GET /groups?status=&interest=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groups, err := h.Groups.List(ctx,
		normalize.QueryParam(r.URL.Query().Get("status")),
		normalize.QueryParam(r.URL.Query().Get("interest")),
	)
	if err != nil {
		h.Log.Error("groups: list failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	jsonapi.OK(w, groups)
}

// ServeGet handles GET /groups/{groupID}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid group id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	group, err := h.Groups.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		jsonapi.Fail(w, http.StatusNotFound, "Group not found.")
		return
	}
	if err != nil {
		h.Log.Error("groups: get failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	jsonapi.OK(w, group)
}

// ServeMine handles GET /groups/mine: the caller's own group.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireStudent(w, r)
	if !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	group, err := h.Groups.GetByMember(ctx, g.UserID)
	if err == mongo.ErrNoDocuments {
		jsonapi.Fail(w, http.StatusNotFound, "You are not in a group.")
		return
	}
	if err != nil {
		h.Log.Error("groups: mine failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	jsonapi.OK(w, group)
}
