package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hotelops/folio-core/internal/core/domain"
	portssvc "github.com/hotelops/folio-core/internal/core/ports/services"
	"github.com/hotelops/folio-core/internal/dto"
	"github.com/hotelops/folio-core/internal/middleware"
)

// queueHandler handles HTTP requests for the offline action queue.
type queueHandler struct {
	queueService portssvc.QueueSvcFacade
}

// registerQueueRoutes registers routes related to the offline action queue
// and terminal connectivity.
func registerQueueRoutes(rg *gin.RouterGroup, queueService portssvc.QueueSvcFacade) {
	h := &queueHandler{queueService: queueService}

	queue := rg.Group("/queue")
	{
		queue.GET("/actions", h.listActions)
		queue.POST("/actions", h.enqueueAction)
		queue.POST("/retry", h.retryQueue)
		queue.GET("/connectivity", h.getConnectivity)
		queue.POST("/offline", h.setOffline)
		queue.POST("/online", h.setOnline)
	}
}

// listActions returns the queued actions in enqueue order.
func (h *queueHandler) listActions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actions, err := h.queueService.Pending(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list queued actions")
		return
	}

	resp := make([]dto.QueuedActionResponse, len(actions))
	for i := range actions {
		resp[i] = dto.ToQueuedActionResponse(&actions[i])
	}
	c.JSON(http.StatusOK, resp)
}

// enqueueAction records a front-desk action for later replay.
func (h *queueHandler) enqueueAction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.EnqueueActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for EnqueueAction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("action_type", req.ActionType), slog.String("target", req.Target))

	action, err := h.queueService.Enqueue(c.Request.Context(), domain.ActionType(req.ActionType), req.Target, req.Payload)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to enqueue action")
		return
	}

	logger.Info("Action enqueued", slog.String("action_id", action.ActionID))
	c.JSON(http.StatusCreated, dto.ToQueuedActionResponse(action))
}

// retryQueue runs a replay pass over the queued actions.
func (h *queueHandler) retryQueue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	delivered, err := h.queueService.RetryQueue(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to replay queued actions")
		return
	}

	pending, err := h.queueService.Pending(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to inspect queue after replay")
		return
	}

	logger.Info("Replay pass finished",
		slog.Int("delivered", delivered),
		slog.Int("remaining", len(pending)))
	c.JSON(http.StatusOK, dto.RetryQueueResponse{Delivered: delivered, Drained: len(pending) == 0})
}

// getConnectivity reports the terminal's connectivity state.
func (h *queueHandler) getConnectivity(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": string(h.queueService.Connectivity())})
}

// setOffline records a store disconnect.
func (h *queueHandler) setOffline(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.queueService.SetOffline(c.Request.Context()); err != nil {
		respondServiceError(c, logger, err, "Failed to record disconnect")
		return
	}

	logger.Warn("Terminal marked offline")
	c.JSON(http.StatusOK, gin.H{"state": string(h.queueService.Connectivity())})
}

// setOnline records a store reconnect and clears the grace timer.
func (h *queueHandler) setOnline(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.queueService.SetOnline(c.Request.Context()); err != nil {
		respondServiceError(c, logger, err, "Failed to record reconnect")
		return
	}

	logger.Info("Terminal marked online")
	c.JSON(http.StatusOK, gin.H{"state": string(h.queueService.Connectivity())})
}
