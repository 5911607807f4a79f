// internal/app/features/users/supervisor.go
package users

import (
	"context"
	"net/http"

	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"github.com/bracu-research/thesishub/internal/app/system/timeouts"
	"github.com/bracu-research/thesishub/internal/app/system/txn"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type assignSupervisorRequest struct {
	SupervisorID string `json:"supervisorId"`
}

// HandleAssignSupervisor handles PUT /users/{id}/supervisor. Admin
// only (enforced in routes). Both sides of the student/supervisor edge are
// written in one transaction.
func (h *Handler) HandleAssignSupervisor(w http.ResponseWriter, r *http.Request) {
	studentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid user id.")
		return
	}

	var req assignSupervisorRequest
	if err := jsonapi.Decode(r, &req); err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	supervisorID, err := primitive.ObjectIDFromHex(req.SupervisorID)
	if err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid supervisor id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Users.GetStudentByID(ctx, studentID); err != nil {
		if err == mongo.ErrNoDocuments {
			jsonapi.Fail(w, http.StatusNotFound, "Student not found.")
			return
		}
		h.Log.Error("users: student lookup failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	if _, err := h.Users.GetSupervisorByID(ctx, supervisorID); err != nil {
		if err == mongo.ErrNoDocuments {
			jsonapi.Fail(w, http.StatusNotFound, "Supervisor not found.")
			return
		}
		h.Log.Error("users: supervisor lookup failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		return h.Users.AssignSupervisor(ctx, []primitive.ObjectID{studentID}, supervisorID)
	})
	if err != nil {
		h.Log.Error("users: assign supervisor failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	jsonapi.Message(w, http.StatusOK, "Supervisor assigned.")
}

// HandleUnassignSupervisor handles DELETE /users/{id}/supervisor.
func (h *Handler) HandleUnassignSupervisor(w http.ResponseWriter, r *http.Request) {
	studentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonapi.Fail(w, http.StatusBadRequest, "Invalid user id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	student, err := h.Users.GetStudentByID(ctx, studentID)
	if err == mongo.ErrNoDocuments {
		jsonapi.Fail(w, http.StatusNotFound, "Student not found.")
		return
	}
	if err != nil {
		h.Log.Error("users: student lookup failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	if student.AssignedSupervisorID == nil {
		jsonapi.Message(w, http.StatusOK, "Student has no assigned supervisor.")
		return
	}
	supervisorID := *student.AssignedSupervisorID

	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		return h.Users.UnassignSupervisor(ctx, studentID, supervisorID)
	})
	if err != nil {
		h.Log.Error("users: unassign supervisor failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	jsonapi.Message(w, http.StatusOK, "Supervisor unassigned.")
}
