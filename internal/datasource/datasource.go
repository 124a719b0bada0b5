// Package datasource defines the contract between the scheduler and the
// concrete crawl sources, plus the shared status bookkeeping every source
// records after an attempt.
package datasource

import (
	"context"
	"errors"
	"time"
)

// Media type ids as stored in the media tables.
const (
	MediaTypeMovie = 1
	MediaTypeTV    = 2
)

// Status values tracked per (media, data source) pair.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
	StatusIgnore Status = "ignore"
)

// Config describes one data source to the scheduler.
type Config struct {
	Name           string
	BatchSize      int
	UpdateInterval time.Duration
	RetryInterval  time.Duration
	BatchDelay     time.Duration
	RateLimitDelay time.Duration

	// MediaScoped sources work one media entity at a time, selected by the
	// scheduler; others run a single global task per cycle.
	MediaScoped bool

	// UsesExistingMedia flips the selection precondition: true means a media
	// row must already exist, false means the source creates it.
	UsesExistingMedia bool
}

// WorkItem is one media entity due for processing in a cycle. Produced fresh
// from the selection query, never persisted.
type WorkItem struct {
	TmdbID            int
	MediaTypeID       int
	MediaID           *int64
	ImdbID            *string
	ReleaseYear       *int
	TitlesDashed      []string
	TitlesUnderscored []string
	TitlesPascalCased []string
	NumberOfSeasons   *int
}

// StatusUpdate records the outcome of one attempt.
type StatusUpdate struct {
	TmdbID      int
	MediaTypeID int
	Status      Status
	RetryCount  int
	Timestamp   time.Time
	Success     bool
}

// DataSource is the minimal contract the scheduler drives.
type DataSource interface {
	Config() Config
	Process(ctx context.Context) error
	UpdateStatus(ctx context.Context, update StatusUpdate) error
}

// MediaDataSource is the media-scoped capability. The scheduler branches on
// this via a type assertion rather than on concrete types.
type MediaDataSource interface {
	DataSource
	ProcessMedia(ctx context.Context, item WorkItem) error
}

type rateLimited interface {
	RateLimited() bool
}

// IsRateLimited reports whether the error chain carries an
// externally-imposed throttling signal (e.g. HTTP 403/503 from the API).
func IsRateLimited(err error) bool {
	var rl rateLimited
	return errors.As(err, &rl) && rl.RateLimited()
}
