package dto

import (
	"encoding/json"
	"time"

	"github.com/hotelops/folio-core/internal/core/domain"
)

// EnqueueActionRequest defines the input for recording an offline action.
type EnqueueActionRequest struct {
	ActionType string          `json:"actionType" binding:"required"`
	Target     string          `json:"target" binding:"required"`
	Payload    json.RawMessage `json:"payload" binding:"required"`
}

// QueuedActionResponse defines the data returned for a queued action.
type QueuedActionResponse struct {
	ActionID   string    `json:"actionID"`
	ActionType string    `json:"actionType"`
	Target     string    `json:"target"`
	Status     string    `json:"status"`
	RetryCount int       `json:"retryCount"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}

// RetryQueueResponse summarizes a replay pass.
type RetryQueueResponse struct {
	Delivered int  `json:"delivered"`
	Drained   bool `json:"drained"` // true when nothing is left pending
}

// ToQueuedActionResponse converts a domain.QueuedAction to its response DTO.
func ToQueuedActionResponse(a *domain.QueuedAction) QueuedActionResponse {
	return QueuedActionResponse{
		ActionID:   a.ActionID,
		ActionType: string(a.ActionType),
		Target:     a.Target,
		Status:     string(a.Status),
		RetryCount: a.RetryCount,
		EnqueuedAt: a.EnqueuedAt,
	}
}
