package models

import "time"

// APIKey represents a credential stored in the 'api_keys' table.
// The raw key is returned to the caller exactly once at creation.
type APIKey struct {
	ID        int64     `db:"id" json:"id"`
	Key       string    `db:"key" json:"-"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
