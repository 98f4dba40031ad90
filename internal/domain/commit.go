package domain

import "time"

// Commit is a single ingested git commit. Rows are created by the ingestion
// pipeline; this engine only ever mutates Category and Weight.
type Commit struct {
	ID           string    `json:"id"            db:"id"`
	RepositoryID string    `json:"repository_id" db:"repository_id"`
	Hash         string    `json:"hash"          db:"hash"`
	Subject      string    `json:"subject"       db:"subject"`
	Category     string    `json:"category,omitempty" db:"category"` // empty = not categorized yet (NULL)
	Weight       int       `json:"weight"        db:"weight"`
	CreatedAt    time.Time `json:"created_at"    db:"created_at"`
}

// Weight bounds. Commits start at WeightMax on ingestion; WeightZero marks
// a commit excluded from effective-work metrics.
const (
	WeightZero = 0
	WeightMax  = 100
)

// Repository is a tracked git repository. Commits reference it by ID.
type Repository struct {
	ID        string    `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CategoryTally splits the commits of one category by weight state, as seen
// by the synchronizer: out-of-sync rows get updated, in-sync rows are
// already at the category weight, reverted rows are at zero and untouchable.
type CategoryTally struct {
	OutOfSync int `json:"out_of_sync"`
	InSync    int `json:"in_sync"`
	Reverted  int `json:"reverted"`
}

// Live returns the number of commits the synchronizer is allowed to touch.
func (t CategoryTally) Live() int {
	return t.OutOfSync + t.InSync
}
