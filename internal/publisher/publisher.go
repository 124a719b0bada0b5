// Package publisher defines the interface for emitting crawl events so
// downstream consumers (search indexing, cache invalidation) learn about
// updated media without polling the database.
package publisher

import "context"

// Publisher emits one event payload to a named topic.
type Publisher interface {
	// Publish marshals the payload and sends it, returning the message id.
	Publish(ctx context.Context, topic string, payload any) (string, error)
}

// Noop discards all events. Used when no event transport is configured.
type Noop struct{}

// Publish does nothing and reports success.
func (Noop) Publish(_ context.Context, _ string, _ any) (string, error) {
	return "", nil
}

// MediaUpdated is the payload published after a media entity was crawled.
type MediaUpdated struct {
	TmdbID      int    `json:"tmdb_id"`
	MediaTypeID int    `json:"media_type_id"`
	MediaID     int64  `json:"media_id"`
	Title       string `json:"title"`
	DataSource  string `json:"data_source"`
	UpdatedAt   string `json:"updated_at"`
}
