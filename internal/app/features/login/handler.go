// internal/app/features/login/handler.go

// Package login implements POST /auth/login: verify credentials against the
// stored bcrypt hash and issue a bearer token.
package login

import (
	"context"
	"net/http"
	"time"

	userstore "github.com/bracu-research/thesishub/internal/app/store/users"
	"github.com/bracu-research/thesishub/internal/app/system/auth"
	"github.com/bracu-research/thesishub/internal/app/system/inputval"
	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"github.com/bracu-research/thesishub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Handler is the dependency container for the login feature.
type Handler struct {
	Users  *userstore.Store
	Tokens *auth.TokenManager
	Log    *zap.Logger
}

func NewHandler(users *userstore.Store, tokens *auth.TokenManager, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Tokens: tokens, Log: logger}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

type loginResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      userInfo  `json:"user"`
}

type userInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// HandleLogin handles POST /auth/login. A wrong email and a wrong password
// produce the same 401 so the endpoint does not leak which emails exist.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
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

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err == mongo.ErrNoDocuments {
		jsonapi.Fail(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}
	if err != nil {
		h.Log.Error("login: lookup failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		jsonapi.Fail(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	su := auth.SessionUser{ID: u.ID.Hex(), Name: u.Name, Email: u.Email, Role: u.Role}
	token, exp, err := h.Tokens.Issue(su)
	if err != nil {
		h.Log.Error("login: token issue failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	jsonapi.OK(w, loginResponse{
		Success:   true,
		Token:     token,
		ExpiresAt: exp,
		User:      userInfo{ID: su.ID, Name: su.Name, Email: su.Email, Role: su.Role},
	})
}
