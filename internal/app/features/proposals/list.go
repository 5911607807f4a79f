// internal/app/features/proposals/list.go
package proposals

import (
	"context"
	"net/http"

	"github.com/bracu-research/thesishub/internal/app/system/gates"
	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"github.com/bracu-research/thesishub/internal/app/system/timeouts"
	"github.com/bracu-research/thesishub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeList handles GET /proposals?supervisorId=&groupId=&status=. With no
// explicit filter the caller's role picks the default scope: supervisors see
// proposals addressed to them, students see their group's, admins see all.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}

	q := r.URL.Query()
	status := q.Get("status")
	switch status {
	case "", models.ProposalPending, models.ProposalApproved, models.ProposalRejected:
	default:
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid status filter.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var (
		list []models.Proposal
		err  error
	)
	switch {
	case q.Get("supervisorId") != "":
		var sid primitive.ObjectID
		sid, err = primitive.ObjectIDFromHex(q.Get("supervisorId"))
		if err != nil {
			jsonapi.Fail(w, http.StatusBadRequest, "Invalid supervisor id.")
			return
		}
		list, err = h.Proposals.ListBySupervisor(ctx, sid, status)
	case q.Get("groupId") != "":
		var gid primitive.ObjectID
		gid, err = primitive.ObjectIDFromHex(q.Get("groupId"))
		if err != nil {
			jsonapi.Fail(w, http.StatusBadRequest, "Invalid group id.")
			return
		}
		list, err = h.Proposals.ListByGroup(ctx, gid)
	case g.Role == "supervisor":
		list, err = h.Proposals.ListBySupervisor(ctx, g.UserID, status)
	case g.Role == "admin":
		list, err = h.Proposals.ListAll(ctx, status)
	default:
		var group models.Group
		group, err = h.Groups.GetByMember(ctx, g.UserID)
		if err == mongo.ErrNoDocuments {
			jsonapi.OK(w, []models.Proposal{})
			return
		}
		if err == nil {
			list, err = h.Proposals.ListByGroup(ctx, group.ID)
		}
	}
	if err != nil {
		h.Log.Error("proposals: list failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	jsonapi.OK(w, list)
}

// ServeGet handles GET /proposals/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid proposal id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Proposals.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		jsonapi.Fail(w, http.StatusNotFound, "Proposal not found.")
		return
	}
	if err != nil {
		h.Log.Error("proposals: get failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	jsonapi.OK(w, p)
}
