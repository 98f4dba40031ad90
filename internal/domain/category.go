package domain

import "time"

// Category is an administrator-curated business-domain label. The Weight
// column is the single source of truth the synchronizer propagates onto
// commits carrying this category.
type Category struct {
	Name       string    `json:"name"        db:"name"`
	Weight     int       `json:"weight"      db:"weight"`
	UsageCount int       `json:"usage_count" db:"usage_count"` // informational only
	CreatedAt  time.Time `json:"created_at"  db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"  db:"updated_at"`
}
