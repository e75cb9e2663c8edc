package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-watermark/internal/models"
	"go.uber.org/zap"
)

// SubmitJobs queues one watermark job per image URL.
func (h *WatermarkHandler) SubmitJobs(c *gin.Context) {
	if h.queue == nil || h.storage == nil {
		h.respondError(c, http.StatusServiceUnavailable, "Job queue is not configured")
		return
	}

	var req models.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid job request: "+err.Error())
		return
	}

	spec, trusted, err := h.resolveSpec(c.Request.Context(), req.Preset, string(req.Spec))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if spec.Kind == models.KindImage && !trusted {
		h.respondServiceError(c, errMissingWatermark)
		return
	}

	settings, err := h.normalizeExport(req.Export)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	jobs, err := h.queue.Submit(c.Request.Context(), req.ImageURLs, spec, settings)
	if err != nil {
		h.logger.Error("Failed to queue jobs", zap.Error(err), zap.Int("queued", len(jobs)))
		h.respondError(c, http.StatusServiceUnavailable, "Failed to queue jobs")
		return
	}

	c.JSON(http.StatusAccepted, models.APIResponse{
		Success: true,
		Data:    jobs,
	})
}

func (h *WatermarkHandler) GetJob(c *gin.Context) {
	if h.storage == nil {
		h.respondError(c, http.StatusServiceUnavailable, "Storage is not configured")
		return
	}

	job, err := h.storage.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    job,
	})
}

func (h *WatermarkHandler) QueueStats(c *gin.Context) {
	if h.queue == nil {
		h.respondError(c, http.StatusServiceUnavailable, "Job queue is not configured")
		return
	}

	stats, err := h.queue.GetQueueStats()
	if err != nil {
		h.logger.Error("Failed to get queue stats", zap.Error(err))
		h.respondError(c, http.StatusBadGateway, "Failed to inspect queue")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    stats,
	})
}
