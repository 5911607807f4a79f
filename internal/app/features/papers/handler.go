// internal/app/features/papers/handler.go

// Package papers proxies keyword searches to the arXiv API.
package papers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/bracu-research/thesishub/internal/app/system/arxiv"
	"github.com/bracu-research/thesishub/internal/app/system/jsonapi"
	"github.com/bracu-research/thesishub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Arxiv *arxiv.Client
	Log   *zap.Logger
}

func NewHandler(client *arxiv.Client, logger *zap.Logger) *Handler {
	return &Handler{Arxiv: client, Log: logger}
}

// ServeSearch handles GET /search-papers?query=&max=.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		jsonapi.Fail(w, http.StatusBadRequest, "Query is required.")
		return
	}
	max, _ := strconv.Atoi(r.URL.Query().Get("max"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	papers, err := h.Arxiv.Search(ctx, query, max)
	if err != nil {
		h.Log.Error("papers: search failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Paper search is currently unavailable.")
		return
	}
	jsonapi.OK(w, papers)
}

// ServeRandom handles GET /random-papers?query=&count=: the same search with
// a random sample of the results.
func (h *Handler) ServeRandom(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		jsonapi.Fail(w, http.StatusBadRequest, "Query is required.")
		return
	}
	count, _ := strconv.Atoi(r.URL.Query().Get("count"))
	if count <= 0 || count > 50 {
		count = 5
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	// Over-fetch so the sample has something to draw from.
	papers, err := h.Arxiv.Search(ctx, query, count*4)
	if err != nil {
		h.Log.Error("papers: random search failed", zap.Error(err))
		jsonapi.Fail(w, http.StatusInternalServerError, "Paper search is currently unavailable.")
		return
	}
	jsonapi.OK(w, arxiv.Sample(papers, count))
}
