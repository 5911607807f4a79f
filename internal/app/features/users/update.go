// internal/app/features/users/update.go
package users

import (
	"context"
	"net/http"
	"strings"

	"github.com/bracu-research/thesishub/internal/app/system/authz"
	"github.com/bracu-research/thesishub/internal/app/system/gates"
	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"github.com/bracu-research/thesishub/internal/app/system/timeouts"
	userstore "github.com/bracu-research/thesishub/internal/app/store/users"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type profilePatch struct {
	Name              *string  `json:"name"`
	PhotoURL          *string  `json:"photoUrl"`
	Department        *string  `json:"department"`
	Phone             *string  `json:"phone"`
	CGPA              *float64 `json:"cgpa"`
	Credits           *int     `json:"credits"`
	ResearchInterests []string `json:"researchInterests"`
}

func (p profilePatch) empty() bool {
	return p.Name == nil && p.PhotoURL == nil && p.Department == nil &&
		p.Phone == nil && p.CGPA == nil && p.Credits == nil && p.ResearchInterests == nil
}

// HandleUpdate handles PATCH /users/{id}. Callers may edit their own profile;
// admins may edit anyone's.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid user id.")
		return
	}
	if id != g.UserID && !authz.IsAdmin(r) {
		jsonapi.Fail(w, http.StatusForbidden, "You can only edit your own profile.")
		return
	}

	var patch profilePatch
	if err := jsonapi.Decode(r, &patch); err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if patch.empty() {
		jsonapi.Fail(w, http.StatusBadRequest, "No updatable fields provided.")
		return
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		jsonapi.Fail(w, http.StatusBadRequest, "Name cannot be empty.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err = h.Users.UpdateProfile(ctx, id, userstore.ProfileUpdate{
		Name:              patch.Name,
		PhotoURL:          patch.PhotoURL,
		Department:        patch.Department,
		Phone:             patch.Phone,
		CGPA:              patch.CGPA,
		Credits:           patch.Credits,
		ResearchInterests: patch.ResearchInterests,
	})
	if err == mongo.ErrNoDocuments {
		jsonapi.Fail(w, http.StatusNotFound, "User not found.")
		return
	}
	if err != nil {
		h.Log.Error("users: update failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("users: reload after update failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	jsonapi.OK(w, u)
}
