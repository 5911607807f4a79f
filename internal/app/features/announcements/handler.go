// internal/app/features/announcements/handler.go

// Package announcements implements the admin notice board. Posting an
// announcement notifies every user.
package announcements

import (
	"context"
	"net/http"

	announcementstore "github.com/bracu-research/thesishub/internal/app/store/announcements"
	"github.com/bracu-research/thesishub/internal/app/system/events"
	"github.com/bracu-research/thesishub/internal/app/system/htmlsanitize"
	"github.com/bracu-research/thesishub/internal/app/system/inputval"
	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"github.com/bracu-research/thesishub/internal/app/system/timeouts"
	"github.com/bracu-research/thesishub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Announcements *announcementstore.Store
	Events        *events.Dispatcher
	Log           *zap.Logger
}

func NewHandler(db *mongo.Database, dispatcher *events.Dispatcher, logger *zap.Logger) *Handler {
	return &Handler{
		Announcements: announcementstore.New(db),
		Events:        dispatcher,
		Log:           logger,
	}
}

type createRequest struct {
	Title   string `json:"title" validate:"required,max=300" label:"Title"`
	Content string `json:"content" validate:"required,max=10000" label:"Content"`
}

// HandleCreate handles POST /announcements. Admin only (enforced in routes).
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := jsonapi.Decode(r, &req); err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if v := inputval.Validate(req); v.HasErrors() {
		jsonapi.Fail(w, http.StatusBadRequest, v.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, err := h.Announcements.Create(ctx, models.Announcement{
		Title:   htmlsanitize.Plain(req.Title),
		Content: htmlsanitize.Sanitize(req.Content),
	})
	if err != nil {
		h.Log.Error("announcements: create failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	h.Events.Dispatch(ctx, events.AnnouncementPosted{Title: a.Title})
	jsonapi.Created(w, a)
}

// ServeList handles GET /announcements, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Announcements.List(ctx)
	if err != nil {
		h.Log.Error("announcements: list failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	jsonapi.OK(w, list)
}
