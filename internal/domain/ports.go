package domain

import "context"

// KeyValueStore is the storage port behind both durable and session state.
// Values are UTF-8 text. A missing key is reported as ("", false, nil).
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Persisted key layout.
const (
	KeyBusinesses        = "businesses"
	KeyBusinessesVersion = "businessesVersion"
	KeyAdminPassword     = "adminPassword"
	KeyAdminAuthPrefix   = "adminAuth:"
)

// SchemaVersion tags the stored collection; a mismatch discards it.
const SchemaVersion = "v2_indian"

// Read models & queries
type SearchFilter struct {
	Query    string
	City     string
	Category string
}

type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type DirectoryStats struct {
	Total    int `json:"total"`
	Verified int `json:"verified"`
	Pending  int `json:"pending"`
}
