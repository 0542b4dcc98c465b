package core

import "time"

// Insight is a cached natural-language analysis of a user's transactions.
// Dirty marks it stale: the transaction list changed after GeneratedAt.
type Insight struct {
	Text        string    `json:"insights"`
	Dirty       bool      `json:"-"`
	GeneratedAt time.Time `json:"generatedAt,omitempty"`
}
