package feedback

import "context"

// Store persists the feedback log.
//
// Append must serialize concurrent writers so no record is lost other than by
// the MaxRecords cap. LoadAll must return either the state before or after any
// concurrent append, never a partial one.
type Store interface {
	// Append stamps rec with an ID and timestamp, appends it, trims the log to
	// MaxRecords and persists the result.
	Append(ctx context.Context, rec Record) (Record, error)
	// LoadAll returns the whole log in arrival order. A corrupt or unreadable
	// store yields an empty log.
	LoadAll(ctx context.Context) (Log, error)
}

// SnapshotWriter uploads an exported analytics snapshot and returns its key.
type SnapshotWriter interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
