// internal/app/features/meetings/create.go
package meetings

import (
	"context"
	"net/http"
	"time"

	"github.com/bracu-research/thesishub/internal/app/policy/meetingpolicy"
	"github.com/bracu-research/thesishub/internal/app/system/events"
	"github.com/bracu-research/thesishub/internal/app/system/gates"
	"github.com/bracu-research/thesishub/internal/app/system/inputval"
	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"github.com/bracu-research/thesishub/internal/app/system/timeouts"
	"github.com/bracu-research/thesishub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createMeetingRequest struct {
	Title   string `json:"title" validate:"required,max=300" label:"Title"`
	Date    string `json:"date" validate:"required" label:"Date"`
	Time    string `json:"time" validate:"required" label:"Time"`
	GroupID string `json:"groupId" validate:"required" label:"Group"`
	Link    string `json:"link" validate:"max=1000" label:"Link"`
}

// validDate accepts YYYY-MM-DD; validTime accepts HH:MM (24-hour).
func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func validTime(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// HandleCreate handles POST /meetings. Only the group's assigned supervisor
// may schedule.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireSupervisor(w, r)
	if !g.OK {
		return
	}

	var req createMeetingRequest
	if err := jsonapi.Decode(r, &req); err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if v := inputval.Validate(req); v.HasErrors() {
		jsonapi.Fail(w, http.StatusBadRequest, v.First())
		return
	}
	if !validDate(req.Date) {
		jsonapi.Fail(w, http.StatusBadRequest, "Date must be in YYYY-MM-DD format.")
		return
	}
	if !validTime(req.Time) {
		jsonapi.Fail(w, http.StatusBadRequest, "Time must be in HH:MM format.")
		return
	}
	groupID, err := primitive.ObjectIDFromHex(req.GroupID)
	if err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid group id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ok, group, err := meetingpolicy.CanSchedule(ctx, h.DB, groupID, g.UserID)
	if err != nil {
		h.Log.Error("meetings: schedule check failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	if !ok {
		jsonapi.Fail(w, http.StatusForbidden, "You are not the assigned supervisor of this group.")
		return
	}

	m, err := h.Meetings.Create(ctx, models.Meeting{
		Title:        req.Title,
		Date:         req.Date,
		Time:         req.Time,
		GroupID:      groupID,
		SupervisorID: g.UserID,
		Link:         req.Link,
	})
	if err != nil {
		h.Log.Error("meetings: create failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	h.Events.Dispatch(ctx, events.MeetingScheduled{
		Title:     m.Title,
		Date:      m.Date,
		Time:      m.Time,
		MemberIDs: group.MemberIDs,
	})
	jsonapi.Created(w, m)
}
