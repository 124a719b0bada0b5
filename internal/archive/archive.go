// Package archive defines the raw payload archive. Every successful API
// fetch can be persisted verbatim so normalizer changes can be replayed
// against historical payloads without re-crawling.
package archive

import (
	"context"
	"fmt"
	"time"
)

// Store persists one raw payload under an object name.
type Store interface {
	Put(ctx context.Context, objectName string, data []byte) error
}

// Noop discards payloads. Used when no archive backend is configured.
type Noop struct{}

// Put does nothing and reports success.
func (Noop) Put(_ context.Context, _ string, _ []byte) error {
	return nil
}

// ObjectName builds the canonical archive path for one fetched entity,
// partitioned by source and fetch date.
func ObjectName(source string, mediaTypeID, tmdbID int, fetchedAt time.Time) string {
	return fmt.Sprintf("%s/%s/%d/%d.json", source, fetchedAt.UTC().Format("2006-01-02"), mediaTypeID, tmdbID)
}
