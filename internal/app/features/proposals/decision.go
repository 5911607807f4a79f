// internal/app/features/proposals/decision.go
package proposals

import (
	"context"
	"net/http"

	proposalstore "github.com/bracu-research/thesishub/internal/app/store/proposals"
	"github.com/bracu-research/thesishub/internal/app/system/events"
	"github.com/bracu-research/thesishub/internal/app/system/gates"
	"github.com/bracu-research/thesishub/internal/app/system/htmlsanitize"
	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"github.com/bracu-research/thesishub/internal/app/system/timeouts"
	"github.com/bracu-research/thesishub/internal/app/system/txn"
	"github.com/bracu-research/thesishub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type decisionRequest struct {
	Action   string `json:"action"`
	Feedback string `json:"feedback"`
}

// approve applies every side effect of accepting a proposal in one
// transaction: the proposal flips to Approved, the group gets its supervisor
// and moves to the supervised state, every member is linked to the
// supervisor, and the group's other proposals are deleted. Returns the
// approved proposal and the member ids to notify.
func (h *Handler) approve(ctx context.Context, proposalID primitive.ObjectID, force bool) (models.Proposal, []primitive.ObjectID, error) {
	var (
		approved models.Proposal
		members  []primitive.ObjectID
	)
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		if force {
			approved, err = h.Proposals.ForceApprove(ctx, proposalID)
		} else {
			approved, err = h.Proposals.Approve(ctx, proposalID)
		}
		if err != nil {
			return err
		}

		if err := h.Groups.SetSupervisor(ctx, approved.GroupID, approved.SupervisorID); err != nil {
			return err
		}
		group, err := h.Groups.GetByID(ctx, approved.GroupID)
		if err != nil {
			return err
		}
		members = group.MemberIDs

		if err := h.Users.AssignSupervisor(ctx, members, approved.SupervisorID); err != nil {
			return err
		}

		_, err = h.Proposals.DeleteSiblings(ctx, approved.GroupID, approved.ID)
		return err
	})
	if err != nil {
		return models.Proposal{}, nil, err
	}
	return approved, members, nil
}

// HandleDecision handles PATCH /proposals/{id}/decision with
// {action: approve|reject}. Only the addressed supervisor may decide, and
// only while the proposal is Pending.
func (h *Handler) HandleDecision(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireSupervisor(w, r)
	if !g.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid proposal id.")
		return
	}

	var req decisionRequest
	if err := jsonapi.Decode(r, &req); err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Action != "approve" && req.Action != "reject" {
		jsonapi.Fail(w, http.StatusBadRequest, `Action must be "approve" or "reject".`)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	p, err := h.Proposals.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		jsonapi.Fail(w, http.StatusNotFound, "Proposal not found.")
		return
	}
	if err != nil {
		h.Log.Error("proposals: decision lookup failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	if p.SupervisorID != g.UserID {
		jsonapi.Fail(w, http.StatusForbidden, "This proposal is not addressed to you.")
		return
	}
	if p.Status != models.ProposalPending {
		jsonapi.Fail(w, http.StatusConflict, "This proposal has already been decided.")
		return
	}

	if req.Action == "reject" {
		rejected, err := h.Proposals.Reject(ctx, id, htmlsanitize.Plain(req.Feedback))
		if err == proposalstore.ErrAlreadyDecided {
			jsonapi.Fail(w, http.StatusConflict, "This proposal has already been decided.")
			return
		}
		if err != nil {
			h.Log.Error("proposals: reject failed", zap.Error(err))
			jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
			return
		}
		h.Events.Dispatch(ctx, events.ProposalRejected{
			ProposalTitle:  rejected.Title,
			SupervisorName: g.Name,
			AdminID:        rejected.StudentID,
		})
		jsonapi.OK(w, rejected)
		return
	}

	approved, members, err := h.approve(ctx, id, false)
	if err == proposalstore.ErrAlreadyDecided {
		jsonapi.Fail(w, http.StatusConflict, "This proposal has already been decided.")
		return
	}
	if err != nil {
		h.Log.Error("proposals: approve failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	h.Events.Dispatch(ctx, events.ProposalApproved{
		ProposalTitle:  approved.Title,
		SupervisorName: g.Name,
		MemberIDs:      members,
	})
	jsonapi.OK(w, approved)
}
