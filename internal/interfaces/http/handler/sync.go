package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	syncapp "github.com/feedsync/backend/internal/application/sync"
	"github.com/feedsync/backend/internal/domain/shopify"
	syncdomain "github.com/feedsync/backend/internal/domain/sync"
	"github.com/feedsync/backend/internal/interfaces/http/dto"
)

// SyncHandler runs synchronizations and serves run history.
type SyncHandler struct {
	BaseHandler
	resolver     *syncapp.ConfigResolver
	orchestrator *syncapp.Orchestrator
	runs         syncdomain.RunStore
	logger       *zap.Logger
}

func NewSyncHandler(resolver *syncapp.ConfigResolver, orchestrator *syncapp.Orchestrator, runs syncdomain.RunStore, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		resolver:     resolver,
		orchestrator: orchestrator,
		runs:         runs,
		logger:       logger,
	}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sync", h.Sync)
	rg.GET("/sync/summary", h.Summary)
}

// Sync resolves credentials, runs a synchronization and returns the report.
// The request blocks until the run finishes.
func (h *SyncHandler) Sync(c *gin.Context) {
	var req dto.SyncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.InvalidJSON(c, "invalid request body: "+err.Error())
			return
		}
	}

	cfg, _, err := h.resolver.ResolveComplete(c.Request.Context(), headerCredentials(c))
	if err != nil {
		var missing *syncdomain.ConfigMissingError
		if errors.As(err, &missing) {
			c.JSON(http.StatusBadRequest, dto.NewConfigMissingResponse(missing))
			return
		}
		h.logger.Error("config resolution failed", zap.Error(err))
		h.InternalError(c, "failed to resolve configuration")
		return
	}

	report, runErr := h.orchestrator.Run(c.Request.Context(), cfg, req.ToOptions())
	if runErr != nil {
		status := dto.GetHTTPStatus(dto.ErrCodeUpstream)
		var authErr *shopify.AuthError
		if errors.As(runErr, &authErr) {
			status = dto.GetHTTPStatus(dto.ErrCodeUnauthorized)
		}
		c.JSON(status, dto.NewSyncResponse(report, runErr.Error()))
		return
	}

	message := fmt.Sprintf("Sync completed: %d created, %d updated, %d skipped, %d failed",
		report.Created, report.Updated, report.Skipped, report.Failed)
	c.JSON(http.StatusOK, dto.NewSyncResponse(report, message))
}

// Summary returns the most recent run reports, newest first.
func (h *SyncHandler) Summary(c *gin.Context) {
	reports, err := h.runs.Latest(c.Request.Context(), 10)
	if err != nil {
		h.logger.Error("failed to load run history", zap.Error(err))
		h.InternalError(c, "failed to load run history")
		return
	}

	summaries := make([]dto.RunSummaryResponse, 0, len(reports))
	for i := range reports {
		r := &reports[i]
		summaries = append(summaries, dto.RunSummaryResponse{
			RunID:           r.RunID,
			Mode:            string(r.Mode),
			State:           string(r.State),
			StartedAt:       r.StartedAt.UTC().Format(time.RFC3339),
			DurationSeconds: r.Duration().Seconds(),
			ProcessedCount:  r.Processed,
			CreatedCount:    r.Created,
			UpdatedCount:    r.Updated,
			SkippedCount:    r.Skipped,
			ErrorCount:      r.Failed,
			AbortReason:     r.AbortReason,
		})
	}
	h.Success(c, summaries)
}
