// internal/app/features/groups/invite.go
package groups

import (
	"context"
	"net/http"

	"github.com/bracu-research/thesishub/internal/app/policy/membership"
	userstore "github.com/bracu-research/thesishub/internal/app/store/users"
	"github.com/bracu-research/thesishub/internal/app/system/events"
	"github.com/bracu-research/thesishub/internal/app/system/gates"
	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"github.com/bracu-research/thesishub/internal/app/system/timeouts"
	"github.com/bracu-research/thesishub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type inviteRequest struct {
	StudentID string `json:"studentId"`
}

// HandleInvite handles POST /groups/{groupID}/invite: the group admin
// invites a student. The invite lands on the student's document and waits
// for their decision.
func (h *Handler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireStudent(w, r)
	if !g.OK {
		return
	}

	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid group id.")
		return
	}

	var req inviteRequest
	if err := jsonapi.Decode(r, &req); err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	studentID, err := primitive.ObjectIDFromHex(req.StudentID)
	if err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid student id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, err := h.Groups.GetByID(ctx, groupID)
	if err == mongo.ErrNoDocuments {
		jsonapi.Fail(w, http.StatusNotFound, "Group not found.")
		return
	}
	if err != nil {
		h.Log.Error("groups: invite lookup failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	if group.AdminID != g.UserID {
		jsonapi.Fail(w, http.StatusForbidden, "Only the group admin can invite students.")
		return
	}
	if group.IsFull() {
		jsonapi.Fail(w, http.StatusConflict, "This group is full")
		return
	}

	if _, err := h.Users.GetStudentByID(ctx, studentID); err != nil {
		if err == mongo.ErrNoDocuments {
			jsonapi.Fail(w, http.StatusNotFound, "Student not found.")
			return
		}
		h.Log.Error("groups: invite student lookup failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	inGroup, err := membership.InAnyGroup(ctx, h.DB, studentID)
	if err != nil {
		h.Log.Error("groups: invite precheck failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	if inGroup {
		jsonapi.Fail(w, http.StatusConflict, "This student is already in a group.")
		return
	}

	inv, err := h.Users.AddInvite(ctx, studentID, models.Invite{
		GroupID:   group.ID,
		GroupName: group.Name,
		AdminID:   group.AdminID,
	})
	if err == userstore.ErrDuplicateInvite {
		jsonapi.Fail(w, http.StatusConflict, "An invite from this group is already pending.")
		return
	}
	if err != nil {
		h.Log.Error("groups: invite failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	h.Events.Dispatch(ctx, events.InviteReceived{
		GroupName: group.Name,
		StudentID: studentID,
	})
	jsonapi.Created(w, inv)
}

// HandleInviteAccept handles PATCH /groups/invite/{requestID}/accept: the
// invited student joins the group. The invite itself is cleared along with
// the student's other pending invites and requests inside the join
// transaction.
func (h *Handler) HandleInviteAccept(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireStudent(w, r)
	if !g.OK {
		return
	}

	inviteID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "requestID"))
	if err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid invite id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	inv, err := h.Users.FindInvite(ctx, g.UserID, inviteID)
	if err == userstore.ErrInviteNotFound {
		jsonapi.Fail(w, http.StatusNotFound, "Invite not found.")
		return
	}
	if err != nil {
		h.Log.Error("groups: invite accept lookup failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	group, err := h.Groups.GetByID(ctx, inv.GroupID)
	if err == mongo.ErrNoDocuments {
		// The group was deleted after the invite went out; drop the invite.
		_, _ = h.Users.TakeInvite(ctx, g.UserID, inviteID)
		jsonapi.Fail(w, http.StatusNotFound, "Group not found.")
		return
	}
	if err != nil {
		h.Log.Error("groups: invite accept group lookup failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	updated, err := h.admit(ctx, group, g.UserID)
	if failAdmit(w, err) {
		if !isConflict(err) {
			h.Log.Error("groups: invite accept failed", zap.Error(err))
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

// HandleInviteReject handles PATCH /groups/invite/{requestID}/reject.
func (h *Handler) HandleInviteReject(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireStudent(w, r)
	if !g.OK {
		return
	}

	inviteID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "requestID"))
	if err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid invite id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	inv, err := h.Users.TakeInvite(ctx, g.UserID, inviteID)
	if err == userstore.ErrInviteNotFound {
		jsonapi.Fail(w, http.StatusNotFound, "Invite not found.")
		return
	}
	if err != nil {
		h.Log.Error("groups: invite reject failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	h.Events.Dispatch(ctx, events.InviteDeclined{
		StudentName: g.Name,
		GroupName:   inv.GroupName,
		AdminID:     inv.AdminID,
	})
	jsonapi.Message(w, http.StatusOK, "Invite rejected.")
}
