// internal/app/features/groups/join.go
package groups

import (
	"context"
	"net/http"

	"github.com/bracu-research/thesishub/internal/app/policy/membership"
	groupstore "github.com/bracu-research/thesishub/internal/app/store/groups"
	"github.com/bracu-research/thesishub/internal/app/system/events"
	"github.com/bracu-research/thesishub/internal/app/system/gates"
	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"github.com/bracu-research/thesishub/internal/app/system/timeouts"
	"github.com/bracu-research/thesishub/internal/app/system/txn"
	"github.com/bracu-research/thesishub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// admit adds the student to the group and cleans up every pending invite and
// join request the student has outstanding, all inside one transaction. The
// three membership paths (direct join, invite-accept, request-accept) share
// this so their side effects cannot drift.
func (h *Handler) admit(ctx context.Context, group models.Group, studentID primitive.ObjectID) (models.Group, error) {
	var updated models.Group
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if err := membership.CanJoin(ctx, h.DB, group, studentID); err != nil {
			return err
		}
		g, err := h.Groups.AddMember(ctx, group.ID, studentID)
		if err != nil {
			return err
		}
		if err := h.Users.ClearInvites(ctx, studentID); err != nil {
			return err
		}
		if err := h.Groups.RemoveJoinRequestsEverywhere(ctx, studentID); err != nil {
			return err
		}
		updated = g
		return nil
	})
	return updated, err
}

// failAdmit translates admit errors into API responses. Returns true if a
// response was written.
func failAdmit(w http.ResponseWriter, err error) bool {
	switch err {
	case nil:
		return false
	case membership.ErrGroupFull, groupstore.ErrGroupFull:
		jsonapi.Fail(w, http.StatusConflict, "This group is full")
	case membership.ErrAlreadyInGroup, membership.ErrGroupAdmin, groupstore.ErrMembershipConflict:
		jsonapi.Fail(w, http.StatusConflict, "You are already in a group.")
	case membership.ErrAlreadyMember:
		jsonapi.Fail(w, http.StatusConflict, "You are already a member of this group.")
	default:
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
	return true
}

// HandleJoin handles PATCH /groups/{groupID}/join: a student joins directly.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireStudent(w, r)
	if !g.OK {
		return
	}

	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid group id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	group, err := h.Groups.GetByID(ctx, groupID)
	if err == mongo.ErrNoDocuments {
		jsonapi.Fail(w, http.StatusNotFound, "Group not found.")
		return
	}
	if err != nil {
		h.Log.Error("groups: join lookup failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	updated, err := h.admit(ctx, group, g.UserID)
	if failAdmit(w, err) {
		if !isConflict(err) {
			h.Log.Error("groups: join failed", zap.Error(err))
		}
		return
	}

	h.Events.Dispatch(ctx, events.StudentJoinedGroup{
		StudentName: g.Name,
		GroupName:   updated.Name,
		StudentID:   g.UserID,
		AdminID:     updated.AdminID,
	})
	jsonapi.OK(w, updated)
}

func isConflict(err error) bool {
	switch err {
	case membership.ErrGroupFull, groupstore.ErrGroupFull,
		membership.ErrAlreadyInGroup, membership.ErrGroupAdmin,
		membership.ErrAlreadyMember, groupstore.ErrMembershipConflict:
		return true
	}
	return false
}
