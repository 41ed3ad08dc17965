package storage

import "time"

const (
	ChangeAdded   = "added"
	ChangeUpdated = "updated"
	ChangeRemoved = "removed"
)

// Change captures a single custom tag change for auditing or printing.
type Change struct {
	OccurredAt time.Time

	// Stock info
	StockCode string
	Exchange  string
	StockName string

	// Tag info
	OldTags    string
	NewTags    string
	ChangeType string // added | updated | removed
}
