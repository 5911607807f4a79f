// internal/app/features/users/register.go
package users

import (
	"context"
	"net/http"
	"strings"

	userstore "github.com/bracu-research/thesishub/internal/app/store/users"
	"github.com/bracu-research/thesishub/internal/app/system/inputval"
	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"github.com/bracu-research/thesishub/internal/app/system/normalize"
	"github.com/bracu-research/thesishub/internal/app/system/timeouts"
	"github.com/bracu-research/thesishub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Name              string   `json:"name" validate:"required,max=120" label:"Name"`
	Email             string   `json:"email" validate:"required,email" label:"Email"`
	Password          string   `json:"password" validate:"required,min=8" label:"Password"`
	Role              string   `json:"role" validate:"required,oneof=student supervisor admin" label:"Role"`
	StudentCode       string   `json:"studentCode" label:"Student ID"`
	Department        string   `json:"department" validate:"max=120" label:"Department"`
	Phone             string   `json:"phone" validate:"max=30" label:"Phone"`
	CGPA              float64  `json:"cgpa" validate:"gte=0,lte=4" label:"CGPA"`
	Credits           int      `json:"credits" validate:"gte=0" label:"Credits"`
	ResearchInterests []string `json:"researchInterests" label:"Research interests"`
}

// HandleRegister handles POST /users.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := jsonapi.Decode(r, &req); err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	req.Role = normalize.Role(req.Role)
	if v := inputval.Validate(req); v.HasErrors() {
		jsonapi.Fail(w, http.StatusBadRequest, v.First())
		return
	}
	if req.Role == models.RoleStudent && strings.TrimSpace(req.StudentCode) == "" {
		jsonapi.Fail(w, http.StatusBadRequest, "Student ID is required for students.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("register: hash failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		Name:              req.Name,
		Email:             req.Email,
		PasswordHash:      string(hash),
		Role:              req.Role,
		StudentCode:       strings.TrimSpace(req.StudentCode),
		Department:        strings.TrimSpace(req.Department),
		Phone:             strings.TrimSpace(req.Phone),
		CGPA:              req.CGPA,
		Credits:           req.Credits,
		ResearchInterests: normalize.Interests(req.ResearchInterests),
	})
	if err == userstore.ErrDuplicateEmail {
		jsonapi.Fail(w, http.StatusConflict, "A user with this email already exists.")
		return
	}
	if err != nil {
		h.Log.Error("register: create failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	jsonapi.Created(w, u)
}
