package domain

import "time"

// AuditRecord is an append-only trail entry for folio and checkout activity.
type AuditRecord struct {
	AuditID    string    `json:"auditID"` // Primary Key (UUID)
	TenantID   string    `json:"tenantID"`
	Action     string    `json:"action"`     // e.g. "payment.submitted", "checkout.completed"
	EntityType string    `json:"entityType"` // e.g. "folio", "reservation"
	EntityID   string    `json:"entityID"`
	Detail     string    `json:"detail"`
	ActorID    string    `json:"actorID"` // StaffID reference
	CreatedAt  time.Time `json:"createdAt"`
}
