// internal/app/features/groups/requests.go
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
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleRequestJoin handles POST /groups/{groupID}/request-join: a student
// asks the group admin to let them in.
func (h *Handler) HandleRequestJoin(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireStudent(w, r)
	if !g.OK {
		return
	}

	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid group id.")
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
		h.Log.Error("groups: request-join lookup failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	// Same preconditions as joining; a request that could never be accepted
	// is rejected up front.
	if err := membership.CanJoin(ctx, h.DB, group, g.UserID); failAdmit(w, err) {
		if !isConflict(err) {
			h.Log.Error("groups: request-join precheck failed", zap.Error(err))
		}
		return
	}

	if err := h.Groups.AddJoinRequest(ctx, group.ID, g.UserID); err != nil {
		if err == mongo.ErrNoDocuments {
			jsonapi.Fail(w, http.StatusNotFound, "Group not found.")
			return
		}
		h.Log.Error("groups: request-join failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	h.Events.Dispatch(ctx, events.JoinRequestReceived{
		StudentName: g.Name,
		GroupName:   group.Name,
		AdminID:     group.AdminID,
	})
	jsonapi.Message(w, http.StatusCreated, "Join request sent.")
}

type requestDecision struct {
	Action string `json:"action"`
}

// HandleRequestDecide handles PATCH /groups/{groupID}/requests/{studentID}
// with {action: accept|reject}. Group admin only.
func (h *Handler) HandleRequestDecide(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireStudent(w, r)
	if !g.OK {
		return
	}

	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid group id.")
		return
	}
	studentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "studentID"))
	if err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid student id.")
		return
	}

	var req requestDecision
	if err := jsonapi.Decode(r, &req); err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Action != "accept" && req.Action != "reject" {
		jsonapi.Fail(w, http.StatusBadRequest, `Action must be "accept" or "reject".`)
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
		h.Log.Error("groups: request decide lookup failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	if group.AdminID != g.UserID {
		jsonapi.Fail(w, http.StatusForbidden, "Only the group admin can decide join requests.")
		return
	}

	pending := false
	for _, jr := range group.PendingJoinRequests {
		if jr.StudentID == studentID {
			pending = true
			break
		}
	}
	if !pending {
		jsonapi.Fail(w, http.StatusNotFound, "Join request not found.")
		return
	}

	if req.Action == "reject" {
		err := h.Groups.RemoveJoinRequest(ctx, group.ID, studentID)
		if err == groupstore.ErrRequestNotFound {
			jsonapi.Fail(w, http.StatusNotFound, "Join request not found.")
			return
		}
		if err != nil {
			h.Log.Error("groups: request reject failed", zap.Error(err))
			jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
			return
		}
		h.Events.Dispatch(ctx, events.JoinRequestDeclined{
			GroupName: group.Name,
			StudentID: studentID,
		})
		jsonapi.Message(w, http.StatusOK, "Join request rejected.")
		return
	}

	// Accept: same admission path as a direct join; the pending request is
	// pulled inside the transaction.
	student, err := h.Users.GetStudentByID(ctx, studentID)
	if err == mongo.ErrNoDocuments {
		jsonapi.Fail(w, http.StatusNotFound, "Student not found.")
		return
	}
	if err != nil {
		h.Log.Error("groups: request accept lookup failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	updated, err := h.admit(ctx, group, studentID)
	if failAdmit(w, err) {
		if !isConflict(err) {
			h.Log.Error("groups: request accept failed", zap.Error(err))
		}
		return
	}

	h.Events.Dispatch(ctx, events.StudentJoinedGroup{
		StudentName: student.Name,
		GroupName:   updated.Name,
		StudentID:   studentID,
		AdminID:     updated.AdminID,
	})
	jsonapi.OK(w, updated)
}
