package domain

import "time"

// AuditLog records administrative actions against the engine, most notably
// category weight changes.
type AuditLog struct {
	ID         string    `json:"id"          db:"id"`
	Actor      string    `json:"actor"       db:"actor"`
	Action     string    `json:"action"      db:"action"`
	Resource   string    `json:"resource"    db:"resource"`
	ResourceID string    `json:"resource_id" db:"resource_id"`
	Detail     string    `json:"detail"      db:"detail"` // JSON blob
	CreatedAt  time.Time `json:"created_at"  db:"created_at"`
}

// Audit action constants.
const (
	AuditActionWeightChange = "category_weight_change"
	AuditActionPassRun      = "pass_run"
)
