// internal/app/features/meetings/update.go
package meetings

import (
	"context"
	"net/http"

	"github.com/bracu-research/thesishub/internal/app/policy/meetingpolicy"
	meetingstore "github.com/bracu-research/thesishub/internal/app/store/meetings"
	"github.com/bracu-research/thesishub/internal/app/system/gates"
	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"github.com/bracu-research/thesishub/internal/app/system/timeouts"
	"github.com/bracu-research/thesishub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ownedMeeting loads {id} and verifies the caller may manage it. Writes the
// error response itself on failure.
func (h *Handler) ownedMeeting(ctx context.Context, w http.ResponseWriter, r *http.Request, supervisorID primitive.ObjectID) (models.Meeting, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid meeting id.")
		return models.Meeting{}, false
	}

	m, err := h.Meetings.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		jsonapi.Fail(w, http.StatusNotFound, "Meeting not found.")
		return models.Meeting{}, false
	}
	if err != nil {
		h.Log.Error("meetings: lookup failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return models.Meeting{}, false
	}

	ok, err := meetingpolicy.CanManage(ctx, h.DB, m, supervisorID)
	if err != nil {
		h.Log.Error("meetings: ownership check failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return models.Meeting{}, false
	}
	if !ok {
		jsonapi.Fail(w, http.StatusForbidden, "You can only manage your own meetings.")
		return models.Meeting{}, false
	}
	return m, true
}

type updateMeetingRequest struct {
	Title *string `json:"title"`
	Date  *string `json:"date"`
	Time  *string `json:"time"`
	Link  *string `json:"link"`
}

// HandleUpdate handles PUT /meetings/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireSupervisor(w, r)
	if !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, ok := h.ownedMeeting(ctx, w, r, g.UserID)
	if !ok {
		return
	}

	var req updateMeetingRequest
	if err := jsonapi.Decode(r, &req); err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Title == nil && req.Date == nil && req.Time == nil && req.Link == nil {
		jsonapi.Fail(w, http.StatusBadRequest, "No updatable fields provided.")
		return
	}
	if req.Title != nil && *req.Title == "" {
		jsonapi.Fail(w, http.StatusBadRequest, "Title cannot be empty.")
		return
	}
	if req.Date != nil && !validDate(*req.Date) {
		jsonapi.Fail(w, http.StatusBadRequest, "Date must be in YYYY-MM-DD format.")
		return
	}
	if req.Time != nil && !validTime(*req.Time) {
		jsonapi.Fail(w, http.StatusBadRequest, "Time must be in HH:MM format.")
		return
	}

	updated, err := h.Meetings.Apply(ctx, m.ID, meetingstore.Update{
		Title: req.Title,
		Date:  req.Date,
		Time:  req.Time,
		Link:  req.Link,
	})
	if err != nil {
		h.Log.Error("meetings: update failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	jsonapi.OK(w, updated)
}

type statusRequest struct {
	Status string `json:"status"`
}

// HandleStatus handles PATCH /meetings/{id}/status. Any status is settable
// from any other.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireSupervisor(w, r)
	if !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, ok := h.ownedMeeting(ctx, w, r, g.UserID)
	if !ok {
		return
	}

	var req statusRequest
	if err := jsonapi.Decode(r, &req); err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	switch req.Status {
	case models.MeetingScheduled, models.MeetingCompleted, models.MeetingCancelled:
	default:
		jsonapi.Fail(w, http.StatusBadRequest, `Status must be "scheduled", "completed", or "cancelled".`)
		return
	}

	updated, err := h.Meetings.Apply(ctx, m.ID, meetingstore.Update{Status: &req.Status})
	if err != nil {
		h.Log.Error("meetings: status update failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	jsonapi.OK(w, updated)
}

// HandleDelete handles DELETE /meetings/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireSupervisor(w, r)
	if !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, ok := h.ownedMeeting(ctx, w, r, g.UserID)
	if !ok {
		return
	}

	if _, err := h.Meetings.Delete(ctx, m.ID); err != nil {
		h.Log.Error("meetings: delete failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	jsonapi.Message(w, http.StatusOK, "Meeting deleted.")
}
