// internal/app/features/proposals/submit.go
package proposals

import (
	"context"
	"net/http"

	"github.com/bracu-research/thesishub/internal/app/system/gates"
	"github.com/bracu-research/thesishub/internal/app/system/htmlsanitize"
	"github.com/bracu-research/thesishub/internal/app/system/inputval"
	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"github.com/bracu-research/thesishub/internal/app/system/timeouts"
	"github.com/bracu-research/thesishub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type submitRequest struct {
	Title        string `json:"title" validate:"required,max=300" label:"Title"`
	Abstract     string `json:"abstract" validate:"required,max=5000" label:"Abstract"`
	Domain       string `json:"domain" validate:"required,max=120" label:"Domain"`
	SupervisorID string `json:"supervisorId" validate:"required" label:"Supervisor"`
}

// HandleSubmit handles POST /proposals. Only the group admin may submit, and
// only while the group has no assigned supervisor.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireStudent(w, r)
	if !g.OK {
		return
	}

	var req submitRequest
	if err := jsonapi.Decode(r, &req); err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if v := inputval.Validate(req); v.HasErrors() {
		jsonapi.Fail(w, http.StatusBadRequest, v.First())
		return
	}
	supervisorID, err := primitive.ObjectIDFromHex(req.SupervisorID)
	if err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid supervisor id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, err := h.Groups.GetByMember(ctx, g.UserID)
	if err == mongo.ErrNoDocuments {
		jsonapi.Fail(w, http.StatusConflict, "You must be in a group to submit a proposal.")
		return
	}
	if err != nil {
		h.Log.Error("proposals: group lookup failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	if group.AdminID != g.UserID {
		jsonapi.Fail(w, http.StatusForbidden, "Only the group admin can submit proposals.")
		return
	}
	if group.AssignedSupervisorID != nil {
		jsonapi.Fail(w, http.StatusConflict, "Your group already has an assigned supervisor.")
		return
	}

	if _, err := h.Users.GetSupervisorByID(ctx, supervisorID); err != nil {
		if err == mongo.ErrNoDocuments {
			jsonapi.Fail(w, http.StatusNotFound, "Supervisor not found.")
			return
		}
		h.Log.Error("proposals: supervisor lookup failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	pending, err := h.Proposals.PendingExists(ctx, group.ID, supervisorID)
	if err != nil {
		h.Log.Error("proposals: pending check failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	if pending {
		jsonapi.Fail(w, http.StatusConflict, "You already have a pending proposal with this supervisor.")
		return
	}
	if !h.AllowResubmit {
		rejected, err := h.Proposals.RejectedExists(ctx, group.ID, supervisorID)
		if err != nil {
			h.Log.Error("proposals: rejection check failed", zap.Error(err))
			jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
			return
		}
		if rejected {
			jsonapi.Fail(w, http.StatusConflict, "This supervisor has already rejected a proposal from your group.")
			return
		}
	}

	p, err := h.Proposals.Create(ctx, models.Proposal{
		Title:        htmlsanitize.Plain(req.Title),
		Abstract:     htmlsanitize.Sanitize(req.Abstract),
		Domain:       htmlsanitize.Plain(req.Domain),
		SupervisorID: supervisorID,
		StudentID:    g.UserID,
		GroupID:      group.ID,
	})
	if err != nil {
		h.Log.Error("proposals: create failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	if err := h.Groups.RecordProposalTarget(ctx, group.ID, supervisorID); err != nil {
		h.Log.Error("proposals: record target failed", zap.Error(err))
	}

	jsonapi.Created(w, p)
}
