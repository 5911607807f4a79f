// internal/app/features/users/notifications.go
package users

import (
	"context"
	"net/http"

	"github.com/bracu-research/thesishub/internal/app/system/gates"
	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"github.com/bracu-research/thesishub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleNotificationsSeen handles PATCH /users/{id}/notifications/seen.
// Idempotent; callers may only mark their own inbox.
func (h *Handler) HandleNotificationsSeen(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid user id.")
		return
	}
	if id != g.UserID {
		jsonapi.Fail(w, http.StatusForbidden, "You can only update your own notifications.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Users.MarkNotificationsSeen(ctx, id)
	if err == mongo.ErrNoDocuments {
		jsonapi.Fail(w, http.StatusNotFound, "User not found.")
		return
	}
	if err != nil {
		h.Log.Error("users: mark seen failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	jsonapi.Message(w, http.StatusOK, "Notifications marked as seen.")
}
