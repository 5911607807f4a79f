// internal/app/features/faqs/handler.go
package faqs

import (
	"context"
	"net/http"

	faqstore "github.com/bracu-research/thesishub/internal/app/store/faqs"
	"github.com/bracu-research/thesishub/internal/app/system/htmlsanitize"
	"github.com/bracu-research/thesishub/internal/app/system/inputval"
	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"github.com/bracu-research/thesishub/internal/app/system/timeouts"
	"github.com/bracu-research/thesishub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	FAQs *faqstore.Store
	Log  *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{FAQs: faqstore.New(db), Log: logger}
}

type createRequest struct {
	Question string `json:"question" validate:"required,max=500" label:"Question"`
	Answer   string `json:"answer" validate:"required,max=10000" label:"Answer"`
}

// HandleCreate handles POST /faqs. Admin only (enforced in routes).
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

	f, err := h.FAQs.Create(ctx, models.FAQ{
		Question: htmlsanitize.Plain(req.Question),
		Answer:   htmlsanitize.Sanitize(req.Answer),
	})
	if err != nil {
		h.Log.Error("faqs: create failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	jsonapi.Created(w, f)
}

// ServeList handles GET /faqs.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.FAQs.List(ctx)
	if err != nil {
		h.Log.Error("faqs: list failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	jsonapi.OK(w, list)
}
