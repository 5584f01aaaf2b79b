package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hotelops/folio-core/internal/core/ports/services"
	"github.com/hotelops/folio-core/internal/dto"
	"github.com/hotelops/folio-core/internal/middleware"
)

// checkoutHandler handles HTTP requests for checkout sessions.
type checkoutHandler struct {
	checkoutService portssvc.CheckoutSvcFacade
}

// registerCheckoutRoutes registers routes related to checkout sessions.
func registerCheckoutRoutes(rg *gin.RouterGroup, checkoutService portssvc.CheckoutSvcFacade) {
	h := &checkoutHandler{checkoutService: checkoutService}

	sessions := rg.Group("/checkout/sessions")
	{
		sessions.POST("", h.openSession)
		sessions.GET("/:sessionID", h.getSession)
		sessions.DELETE("/:sessionID", h.closeSession)
		sessions.POST("/:sessionID/refresh", h.refreshSession)
		sessions.POST("/:sessionID/complete", h.completeCheckout)
	}
}

// openSession opens a checkout session for a room.
func (h *checkoutHandler) openSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for OpenSession", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("room_id", req.RoomID))

	session, err := h.checkoutService.OpenSession(c.Request.Context(), req.RoomID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to open checkout session")
		return
	}

	logger.Info("Checkout session opened", slog.String("session_id", session.SessionID))
	c.JSON(http.StatusCreated, dto.ToCheckoutSessionResponse(session))
}

// getSession returns the current state of a checkout session.
func (h *checkoutHandler) getSession(c *gin.Context) {
	sessionID := c.Param("sessionID")

	session, found := h.checkoutService.GetSession(sessionID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Checkout session not found"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCheckoutSessionResponse(session))
}

// closeSession tears a session down (room deselected).
func (h *checkoutHandler) closeSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	h.checkoutService.CloseSession(sessionID)
	c.Status(http.StatusNoContent)
}

// refreshSession reloads the bill and recomputes the checkout status.
func (h *checkoutHandler) refreshSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("sessionID")
	logger = logger.With(slog.String("session_id", sessionID))

	session, err := h.checkoutService.Refresh(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to refresh checkout session")
		return
	}

	c.JSON(http.StatusOK, dto.ToCheckoutSessionResponse(session))
}

// completeCheckout runs the checkout transition for a settled session.
func (h *checkoutHandler) completeCheckout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("sessionID")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("session_id", sessionID), slog.String("actor_id", actorID))

	session, err := h.checkoutService.Complete(c.Request.Context(), sessionID, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to complete checkout")
		return
	}

	logger.Info("Checkout completed", slog.String("session_id", sessionID))
	c.JSON(http.StatusOK, dto.ToCheckoutSessionResponse(session))
}
