package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hotelops/folio-core/internal/core/ports/services"
	"github.com/hotelops/folio-core/internal/dto"
	"github.com/hotelops/folio-core/internal/middleware"
)

// paymentHandler handles HTTP requests for payments against checkout sessions.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

// registerPaymentRoutes registers routes related to payment capture.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := &paymentHandler{paymentService: paymentService}

	rg.POST("/checkout/sessions/:sessionID/payments", h.submitPayment)
}

// submitPayment records a payment against the session's folio.
func (h *paymentHandler) submitPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("sessionID")

	var req dto.SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SubmitPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(
		slog.String("session_id", sessionID),
		slog.String("actor_id", actorID),
		slog.Int64("amount", req.Amount),
	)

	payment, err := h.paymentService.SubmitPayment(c.Request.Context(), sessionID, req.Amount, req.Method, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to submit payment")
		return
	}

	logger.Info("Payment submitted", slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}
