// internal/app/features/proposals/admin.go
package proposals

import (
	"context"
	"net/http"

	proposalstore "github.com/bracu-research/thesishub/internal/app/store/proposals"
	"github.com/bracu-research/thesishub/internal/app/system/events"
	"github.com/bracu-research/thesishub/internal/app/system/gates"
	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"github.com/bracu-research/thesishub/internal/app/system/timeouts"
	"github.com/bracu-research/thesishub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type adminOverrideRequest struct {
	ProposalID string `json:"proposalId"`
}

func (h *Handler) overrideTarget(w http.ResponseWriter, r *http.Request) (models.Proposal, bool) {
	var req adminOverrideRequest
	if err := jsonapi.Decode(r, &req); err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return models.Proposal{}, false
	}
	id, err := primitive.ObjectIDFromHex(req.ProposalID)
	if err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid proposal id.")
		return models.Proposal{}, false
	}

	p, err := h.Proposals.GetByID(r.Context(), id)
	if err == mongo.ErrNoDocuments {
		jsonapi.Fail(w, http.StatusNotFound, "Proposal not found.")
		return models.Proposal{}, false
	}
	if err != nil {
		h.Log.Error("proposals: admin lookup failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return models.Proposal{}, false
	}
	return p, true
}

// HandleAdminAssign handles PATCH /admin/assign-supervisor: an admin applies
// the full approval side effects regardless of the proposal's status. The
// call is idempotent when the group's supervisor already matches.
func (h *Handler) HandleAdminAssign(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAdmin(w, r)
	if !g.OK {
		return
	}

	p, ok := h.overrideTarget(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	group, err := h.Groups.GetByID(ctx, p.GroupID)
	if err == mongo.ErrNoDocuments {
		jsonapi.Fail(w, http.StatusNotFound, "Group not found.")
		return
	}
	if err != nil {
		h.Log.Error("proposals: admin group lookup failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	if group.AssignedSupervisorID != nil && *group.AssignedSupervisorID == p.SupervisorID {
		jsonapi.Message(w, http.StatusOK, "Supervisor already assigned to this group.")
		return
	}

	approved, members, err := h.approve(ctx, p.ID, true)
	if err != nil {
		h.Log.Error("proposals: admin assign failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	supervisorName := ""
	if sup, err := h.Users.GetSupervisorByID(ctx, approved.SupervisorID); err == nil {
		supervisorName = sup.Name
	}
	h.Events.Dispatch(ctx, events.ProposalApproved{
		ProposalTitle:  approved.Title,
		SupervisorName: supervisorName,
		MemberIDs:      members,
	})
	jsonapi.OK(w, approved)
}

// HandleAdminReject handles PATCH /admin/reject-proposal. Unlike the assign
// override this keeps the Pending-only guard.
func (h *Handler) HandleAdminReject(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAdmin(w, r)
	if !g.OK {
		return
	}

	p, ok := h.overrideTarget(w, r)
	if !ok {
		return
	}
	if p.Status != models.ProposalPending {
		jsonapi.Fail(w, http.StatusConflict, "This proposal has already been decided.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rejected, err := h.Proposals.Reject(ctx, p.ID, "")
	if err == proposalstore.ErrAlreadyDecided {
		jsonapi.Fail(w, http.StatusConflict, "This proposal has already been decided.")
		return
	}
	if err != nil {
		h.Log.Error("proposals: admin reject failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	h.Events.Dispatch(ctx, events.ProposalRejected{
		ProposalTitle:  rejected.Title,
		SupervisorName: g.Name,
		AdminID:        rejected.StudentID,
	})
	jsonapi.OK(w, rejected)
}
