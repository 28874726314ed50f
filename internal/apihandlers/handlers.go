package apihandlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"verve/internal/app"
	"verve/internal/models"
	"verve/internal/recommend"
	"verve/internal/store"
)

type APIHandler struct {
	App *app.App
}

func NewAPIHandler(a *app.App) *APIHandler {
	return &APIHandler{App: a}
}

// RecommendRequest is the POST /recommendations body. RunID defaults to
// the latest run; N to the configured default limit.
type RecommendRequest struct {
	RunID         string   `json:"run_id"`
	Goal          string   `json:"goal" binding:"required"`
	N             int      `json:"n"`
	SeenContent   []string `json:"seen_content"`
	SessionNumber int      `json:"session_number"`
}

// RecommendationEntry pairs a scored recommendation with its resolved
// content item and rendered explanation.
type RecommendationEntry struct {
	Rank        int                `json:"rank"`
	Content     models.ContentItem `json:"content"`
	Score       float64            `json:"score"`
	Reasons     []string           `json:"reasons"`
	Explanation string             `json:"explanation"`
}

// RecommendHandler scores the run's catalog for the requested context.
func (h *APIHandler) RecommendHandler(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.N <= 0 {
		req.N = h.App.Config.Recommender.DefaultLimit
	}
	if req.SessionNumber <= 0 {
		req.SessionNumber = 1
	}

	ctx := c.Request.Context()
	run, err := h.App.ResolveRun(ctx, req.RunID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "run not found")
			return
		}
		Internal(c, fmt.Sprintf("resolve run: %v", err))
		return
	}

	rec, err := h.App.RecommenderForRun(ctx, run.ID)
	if err != nil {
		Internal(c, fmt.Sprintf("build recommender: %v", err))
		return
	}

	recs := rec.Recommend(req.Goal, req.N, req.SeenContent, req.SessionNumber)
	entries := make([]RecommendationEntry, 0, len(recs))
	for i, r := range recs {
		item, err := rec.Catalog().Get(r.ContentID)
		if err != nil {
			// Catalog produced the ID; a miss here means a bug.
			Internal(c, fmt.Sprintf("resolve recommended content: %v", err))
			return
		}
		entries = append(entries, RecommendationEntry{
			Rank:        i + 1,
			Content:     item,
			Score:       r.Score,
			Reasons:     r.Reasons,
			Explanation: recommend.Explain(r, item),
		})
	}

	log.WithFields(log.Fields{
		"run_id":  run.ID,
		"goal":    req.Goal,
		"session": req.SessionNumber,
		"results": len(entries),
	}).Info("API recommend")

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"run_id":          run.ID,
		"goal":            req.Goal,
		"session_number":  req.SessionNumber,
		"recommendations": entries,
	}})
}

// ListContentHandler returns a run's content library in catalog order.
func (h *APIHandler) ListContentHandler(c *gin.Context) {
	ctx := c.Request.Context()
	run, err := h.App.ResolveRun(ctx, c.Query("run_id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "run not found")
			return
		}
		Internal(c, fmt.Sprintf("resolve run: %v", err))
		return
	}

	items, err := h.App.DatasetStore.ListContent(ctx, run.ID)
	if err != nil {
		Internal(c, fmt.Sprintf("list content: %v", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"run_id": run.ID, "content": items}})
}

// GetContentHandler resolves a single content item by ID.
func (h *APIHandler) GetContentHandler(c *gin.Context) {
	ctx := c.Request.Context()
	run, err := h.App.ResolveRun(ctx, c.Query("run_id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "run not found")
			return
		}
		Internal(c, fmt.Sprintf("resolve run: %v", err))
		return
	}

	rec, err := h.App.RecommenderForRun(ctx, run.ID)
	if err != nil {
		Internal(c, fmt.Sprintf("build recommender: %v", err))
		return
	}
	item, err := rec.Catalog().Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			NotFound(c, fmt.Sprintf("content %q not found", c.Param("id")))
			return
		}
		Internal(c, fmt.Sprintf("get content: %v", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": item})
}

// ListRunsHandler returns recent runs, newest first.
func (h *APIHandler) ListRunsHandler(c *gin.Context) {
	runs, err := h.App.RunStore.ListRuns(c.Request.Context(), 20)
	if err != nil {
		Internal(c, fmt.Sprintf("list runs: %v", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": runs})
}
