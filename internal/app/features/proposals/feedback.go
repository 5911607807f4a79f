// internal/app/features/proposals/feedback.go
package proposals

import (
	"context"
	"net/http"
	"strings"

	"github.com/bracu-research/thesishub/internal/app/system/gates"
	"github.com/bracu-research/thesishub/internal/app/system/htmlsanitize"
	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"github.com/bracu-research/thesishub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type feedbackRequest struct {
	Text string `json:"text"`
}

// HandleFeedback handles POST /proposals/{id}/feedback: the addressed
// supervisor appends a timestamped note.
func (h *Handler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireSupervisor(w, r)
	if !g.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid proposal id.")
		return
	}

	var req feedbackRequest
	if err := jsonapi.Decode(r, &req); err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	text := htmlsanitize.Plain(req.Text)
	if strings.TrimSpace(text) == "" {
		jsonapi.Fail(w, http.StatusBadRequest, "Feedback text is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Proposals.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		jsonapi.Fail(w, http.StatusNotFound, "Proposal not found.")
		return
	}
	if err != nil {
		h.Log.Error("proposals: feedback lookup failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	if p.SupervisorID != g.UserID {
		jsonapi.Fail(w, http.StatusForbidden, "This proposal is not addressed to you.")
		return
	}

	if err := h.Proposals.AddFeedback(ctx, id, text); err != nil {
		h.Log.Error("proposals: feedback failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	jsonapi.Message(w, http.StatusCreated, "Feedback added.")
}
