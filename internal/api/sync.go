package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"news_review/internal/domain"
	"news_review/internal/status"
)

type lastSync struct {
	SyncedAt    *time.Time        `json:"syncedAt,omitempty"`
	Status      domain.StatusKind `json:"status"`
	Error       string            `json:"error,omitempty"`
	TotalSynced int64             `json:"totalSynced"`
}

type syncStatusResponse struct {
	status.Snapshot
	Running   bool      `json:"running"`
	Reachable bool      `json:"reachable"`
	Last      *lastSync `json:"last,omitempty"`
}

func RegisterSyncRoutes(r *gin.Engine, h *handler) {
	r.GET("/api/sync/status", h.syncStatus)
	r.POST("/api/sync", h.triggerSync)
}

func (h *handler) syncStatus(c *gin.Context) {
	resp := syncStatusResponse{
		Snapshot:  h.deps.Status.Snapshot(),
		Running:   h.deps.Trigger.Running(),
		Reachable: h.deps.Network.IsReachable(),
	}

	state, err := h.deps.SyncState.Get(c.Request.Context(), h.deps.SourceID)
	if err != nil {
		h.logger.Error("failed to read sync state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp.Last = &lastSync{
		Status:      state.LastStatus,
		Error:       state.LastError,
		TotalSynced: state.TotalSynced,
	}
	if !state.LastSyncedAt.IsZero() {
		resp.Last.SyncedAt = &state.LastSyncedAt
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) triggerSync(c *gin.Context) {
	if !h.deps.Trigger.Trigger() {
		c.JSON(http.StatusConflict, gin.H{"error": domain.ErrSyncInProgress.Error()})
		return
	}

	h.logger.Info("manual sync requested", "remote_addr", c.ClientIP())
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}
