// internal/app/features/groups/create.go
package groups

import (
	"context"
	"net/http"

	"github.com/bracu-research/thesishub/internal/app/policy/membership"
	groupstore "github.com/bracu-research/thesishub/internal/app/store/groups"
	"github.com/bracu-research/thesishub/internal/app/system/gates"
	"github.com/bracu-research/thesishub/internal/app/system/inputval"
	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"github.com/bracu-research/thesishub/internal/app/system/normalize"
	"github.com/bracu-research/thesishub/internal/app/system/timeouts"
	"github.com/bracu-research/thesishub/internal/domain/models"
	"go.uber.org/zap"
)

type createGroupRequest struct {
	Name              string   `json:"name" validate:"required,max=120" label:"Group name"`
	ResearchInterests []string `json:"researchInterests" validate:"required,min=1" label:"Research interests"`
}

// HandleCreate handles POST /groups. The caller becomes the group admin and
// its first member.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireStudent(w, r)
	if !g.OK {
		return
	}

	var req createGroupRequest
	if err := jsonapi.Decode(r, &req); err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if v := inputval.Validate(req); v.HasErrors() {
		jsonapi.Fail(w, http.StatusBadRequest, v.First())
		return
	}
	interests := normalize.Interests(req.ResearchInterests)
	if len(interests) == 0 {
		jsonapi.Fail(w, http.StatusBadRequest, "At least one research interest is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := membership.CanCreate(ctx, h.DB, g.UserID); err != nil {
		if err == membership.ErrAlreadyInGroup {
			jsonapi.Fail(w, http.StatusConflict, "You have already created a group.")
			return
		}
		h.Log.Error("groups: create precheck failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	created, err := h.Groups.Create(ctx, models.Group{
		Name:              normalize.Name(req.Name),
		AdminID:           g.UserID,
		ResearchInterests: interests,
		MaxMembers:        h.MaxMembers,
	})
	if err == groupstore.ErrMembershipConflict {
		// The unique indexes caught a racing create.
		jsonapi.Fail(w, http.StatusConflict, "You have already created a group.")
		return
	}
	if err != nil {
		h.Log.Error("groups: create failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	jsonapi.Created(w, created)
}
