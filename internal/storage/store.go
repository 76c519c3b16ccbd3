// Package storage provides the opaque key-value store behind document
// persistence. Keys mirror the layout of the original browser storage: one
// record per document, one index key listing all document ids, and one
// draft key for auto-saved work in progress.
package storage

import "context"

const (
	// IndexKey holds the JSON list of all known document ids.
	IndexKey = "meeting-minutes"
	// DraftKey holds the auto-saved draft of an in-progress edit.
	DraftKey = "draft"

	recordPrefix = "ata-record-"
)

// RecordKey returns the store key for a document id.
func RecordKey(id string) string { return recordPrefix + id }

// Store is the key-value contract consumed by the document service. Writes
// are atomic per key; failures carry a *StorageError with a
// machine-readable code.
type Store interface {
	// Get returns the value for key, with ok=false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set writes value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
