// internal/app/features/users/bookmarks.go
package users

import (
	"context"
	"net/http"

	userstore "github.com/bracu-research/thesishub/internal/app/store/users"
	"github.com/bracu-research/thesishub/internal/app/system/gates"
	"github.com/bracu-research/thesishub/internal/app/system/inputval"
	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"github.com/bracu-research/thesishub/internal/app/system/timeouts"
	"github.com/bracu-research/thesishub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type bookmarkRequest struct {
	PaperID string `json:"paperId" validate:"required,max=300" label:"Paper id"`
	Title   string `json:"title" validate:"required,max=500" label:"Title"`
	Link    string `json:"link" validate:"max=1000" label:"Link"`
}

// userParam parses {id} and checks the caller owns the resource.
func (h *Handler) userParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid user id.")
		return primitive.NilObjectID, false
	}
	if id != g.UserID {
		jsonapi.Fail(w, http.StatusForbidden, "You can only manage your own bookmarks.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// HandleAddBookmark handles POST /users/{id}/bookmarks.
func (h *Handler) HandleAddBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userParam(w, r)
	if !ok {
		return
	}

	var req bookmarkRequest
	if err := jsonapi.Decode(r, &req); err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if v := inputval.Validate(req); v.HasErrors() {
		jsonapi.Fail(w, http.StatusBadRequest, v.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.Users.AddBookmark(ctx, id, models.Bookmark{
		PaperID: req.PaperID,
		Title:   req.Title,
		Link:    req.Link,
	})
	if err == userstore.ErrDuplicateBookmark {
		jsonapi.Fail(w, http.StatusConflict, "Paper is already bookmarked.")
		return
	}
	if err == mongo.ErrNoDocuments {
		jsonapi.Fail(w, http.StatusNotFound, "User not found.")
		return
	}
	if err != nil {
		h.Log.Error("users: add bookmark failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	jsonapi.Message(w, http.StatusCreated, "Paper bookmarked.")
}

// ServeBookmarks handles GET /users/{id}/bookmarks.
func (h *Handler) ServeBookmarks(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		jsonapi.Fail(w, http.StatusNotFound, "User not found.")
		return
	}
	if err != nil {
		h.Log.Error("users: bookmarks failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	if u.Bookmarks == nil {
		u.Bookmarks = []models.Bookmark{}
	}
	jsonapi.OK(w, u.Bookmarks)
}

// HandleRemoveBookmark handles DELETE /users/{id}/bookmarks/{paperID}.
func (h *Handler) HandleRemoveBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userParam(w, r)
	if !ok {
		return
	}
	paperID := chi.URLParam(r, "paperID")
	if paperID == "" {
		jsonapi.Fail(w, http.StatusBadRequest, "Paper id is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.RemoveBookmark(ctx, id, paperID); err != nil {
		h.Log.Error("users: remove bookmark failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	jsonapi.Message(w, http.StatusOK, "Bookmark removed.")
}
