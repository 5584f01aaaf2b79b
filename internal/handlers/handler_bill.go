package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hotelops/folio-core/internal/core/ports/services"
	"github.com/hotelops/folio-core/internal/dto"
	"github.com/hotelops/folio-core/internal/middleware"
)

// billHandler handles HTTP requests related to guest bills.
type billHandler struct {
	billingService portssvc.BillingSvcFacade
}

// registerBillRoutes registers routes related to guest bills.
func registerBillRoutes(rg *gin.RouterGroup, billingService portssvc.BillingSvcFacade) {
	h := &billHandler{billingService: billingService}

	rooms := rg.Group("/rooms")
	{
		rooms.GET("/:roomID/bill", h.getGuestBill)
		rooms.POST("/:roomID/charges", h.postCharge)
	}
}

// getGuestBill returns the authoritative aggregated bill for a room.
func (h *billHandler) getGuestBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	roomID := c.Param("roomID")
	logger = logger.With(slog.String("room_id", roomID))

	bill, err := h.billingService.LoadGuestBill(c.Request.Context(), roomID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to load guest bill")
		return
	}

	c.JSON(http.StatusOK, dto.ToGuestBillResponse(bill))
}

// postCharge appends a charge to the room's open folio and returns the
// reloaded bill.
func (h *billHandler) postCharge(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	roomID := c.Param("roomID")

	var req dto.PostChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostCharge", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("room_id", roomID), slog.String("actor_id", actorID))

	bill, err := h.billingService.PostCharge(c.Request.Context(), roomID, req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post charge")
		return
	}

	logger.Info("Charge posted", slog.String("folio_id", bill.FolioID))
	c.JSON(http.StatusCreated, dto.ToGuestBillResponse(bill))
}
