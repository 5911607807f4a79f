// internal/app/features/meetings/list.go
package meetings

import (
	"context"
	"net/http"

	"github.com/bracu-research/thesishub/internal/app/system/gates"
	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"github.com/bracu-research/thesishub/internal/app/system/normalize"
	"github.com/bracu-research/thesishub/internal/app/system/timeouts"
	"github.com/bracu-research/thesishub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeList handles GET /meetings?supervisorId=&groupId=&studentId=&status=.
// The student filter resolves the student's group first; a groupless student
// has no meetings.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}

	q := r.URL.Query()
	status := normalize.QueryParam(q.Get("status"))
	switch status {
	case "", models.MeetingScheduled, models.MeetingCompleted, models.MeetingCancelled:
	default:
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid status filter.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var (
		list []models.Meeting
		err  error
	)
	switch {
	case q.Get("studentId") != "":
		var sid primitive.ObjectID
		sid, err = primitive.ObjectIDFromHex(q.Get("studentId"))
		if err != nil {
			jsonapi.Fail(w, http.StatusBadRequest, "Invalid student id.")
			return
		}
		group, gerr := h.Groups.GetByMember(ctx, sid)
		if gerr == mongo.ErrNoDocuments {
			jsonapi.OK(w, []models.Meeting{})
			return
		}
		if gerr != nil {
			h.Log.Error("meetings: student group lookup failed", zap.Error(gerr))
			jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
			return
		}
		list, err = h.Meetings.ListByGroup(ctx, group.ID, status)
	case q.Get("groupId") != "":
		var gid primitive.ObjectID
		gid, err = primitive.ObjectIDFromHex(q.Get("groupId"))
		if err != nil {
			jsonapi.Fail(w, http.StatusBadRequest, "Invalid group id.")
			return
		}
		list, err = h.Meetings.ListByGroup(ctx, gid, status)
	case q.Get("supervisorId") != "":
		var sid primitive.ObjectID
		sid, err = primitive.ObjectIDFromHex(q.Get("supervisorId"))
		if err != nil {
			jsonapi.Fail(w, http.StatusBadRequest, "Invalid supervisor id.")
			return
		}
		list, err = h.Meetings.ListBySupervisor(ctx, sid, status, nil)
	case g.Role == "supervisor":
		list, err = h.Meetings.ListBySupervisor(ctx, g.UserID, status, nil)
	default:
		group, gerr := h.Groups.GetByMember(ctx, g.UserID)
		if gerr == mongo.ErrNoDocuments {
			jsonapi.OK(w, []models.Meeting{})
			return
		}
		if gerr != nil {
			h.Log.Error("meetings: group lookup failed", zap.Error(gerr))
			jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
			return
		}
		list, err = h.Meetings.ListByGroup(ctx, group.ID, status)
	}
	if err != nil {
		h.Log.Error("meetings: list failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	jsonapi.OK(w, list)
}

// ServeGet handles GET /meetings/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid meeting id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Meetings.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		jsonapi.Fail(w, http.StatusNotFound, "Meeting not found.")
		return
	}
	if err != nil {
		h.Log.Error("meetings: get failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	jsonapi.OK(w, m)
}
