package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goodwatch/goodwatch-crawler/internal/archive"
	"github.com/goodwatch/goodwatch-crawler/internal/clock"
	"github.com/goodwatch/goodwatch-crawler/internal/datasource"
	"github.com/goodwatch/goodwatch-crawler/internal/publisher"
	"github.com/goodwatch/goodwatch-crawler/internal/tmdb"
)

const mediaUpdatedTopic = "media-updated"

// TMDBDetails crawls the full detail payload for movies and tv shows. It
// creates the media rows itself, so selection does not require an existing
// media entity.
type TMDBDetails struct {
	client  *tmdb.Client
	saver   *Saver
	status  *datasource.StatusStore
	archive archive.Store
	events  publisher.Publisher
	clock   clock.Clock
	logger  *zap.Logger
}

// NewTMDBDetails wires the details source.
func NewTMDBDetails(
	client *tmdb.Client,
	saver *Saver,
	status *datasource.StatusStore,
	archiveStore archive.Store,
	events publisher.Publisher,
	logger *zap.Logger,
) *TMDBDetails {
	return &TMDBDetails{
		client:  client,
		saver:   saver,
		status:  status,
		archive: archiveStore,
		events:  events,
		clock:   clock.System{},
		logger:  logger,
	}
}

// Config returns the scheduling parameters for the details source.
func (s *TMDBDetails) Config() datasource.Config {
	return datasource.Config{
		Name:              "tmdb_details",
		BatchSize:         20,
		UpdateInterval:    7 * 24 * time.Hour,
		RetryInterval:     30 * time.Second,
		BatchDelay:        0,
		RateLimitDelay:    60 * time.Second,
		MediaScoped:       true,
		UsesExistingMedia: false,
	}
}

// Process is unused; the source is media scoped.
func (s *TMDBDetails) Process(_ context.Context) error {
	return fmt.Errorf("tmdb_details is media scoped")
}

// UpdateStatus records an attempt outcome for one media entity.
func (s *TMDBDetails) UpdateStatus(ctx context.Context, update datasource.StatusUpdate) error {
	return s.status.UpdateMediaStatus(ctx, s.Config().Name, update)
}

// ProcessMedia fetches, stores and publishes one media entity. The root row
// must save; every dependent save failure is logged and swallowed so one
// broken sub-resource never loses the whole payload.
func (s *TMDBDetails) ProcessMedia(ctx context.Context, item datasource.WorkItem) error {
	var mediaID int64
	var title string
	var raw []byte
	var err error

	switch item.MediaTypeID {
	case datasource.MediaTypeMovie:
		mediaID, title, raw, err = s.processMovie(ctx, item)
	case datasource.MediaTypeTV:
		mediaID, title, raw, err = s.processTV(ctx, item)
	default:
		return fmt.Errorf("unknown media type id %d", item.MediaTypeID)
	}
	if err != nil {
		return err
	}

	now := s.clock.Now()
	s.archivePayload(ctx, item, raw, now)
	s.publishUpdate(ctx, item, mediaID, title, now)

	if err := s.UpdateStatus(ctx, datasource.StatusUpdate{
		TmdbID:      item.TmdbID,
		MediaTypeID: item.MediaTypeID,
		Status:      datasource.StatusOK,
		Timestamp:   now,
		Success:     true,
	}); err != nil {
		return fmt.Errorf("record success: %w", err)
	}
	return nil
}

func (s *TMDBDetails) processMovie(ctx context.Context, item datasource.WorkItem) (int64, string, []byte, error) {
	details, err := s.client.MovieDetails(ctx, item.TmdbID)
	if err != nil {
		return 0, "", nil, fmt.Errorf("fetch movie %d: %w", item.TmdbID, err)
	}

	var collection *tmdb.Collection
	if details.BelongsToCollection != nil {
		collection, err = s.client.Collection(ctx, details.BelongsToCollection.ID)
		if err != nil {
			// A missing collection payload is not worth failing the movie.
			s.logger.Warn("collection fetch failed",
				zap.Int("tmdb_id", item.TmdbID),
				zap.Int("collection_id", details.BelongsToCollection.ID),
				zap.Error(err),
			)
			collection = nil
		}
	}

	mediaID, err := s.saver.SaveMovie(ctx, details)
	if err != nil {
		return 0, "", nil, err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	s.try(group, item, "collection", func() error {
		return s.saver.SaveCollection(groupCtx, mediaID, collection)
	})
	s.try(group, item, "genres", func() error {
		return s.saver.SaveGenres(groupCtx, mediaID, details.Genres)
	})
	s.try(group, item, "keywords", func() error {
		return s.saver.SaveKeywords(groupCtx, mediaID, details.Keywords.Keywords)
	})
	s.try(group, item, "alternative_titles", func() error {
		return s.saver.SaveAlternativeTitles(groupCtx, mediaID, details.AlternativeTitles.Titles)
	})
	s.try(group, item, "credits", func() error {
		// Crew upserts touch the same people rows; running them after cast
		// keeps the two from deadlocking on row order.
		if err := s.saver.SaveCast(groupCtx, mediaID, MovieCastEntries(details.Credits.Cast)); err != nil {
			return err
		}
		return s.saver.SaveCrew(groupCtx, mediaID, MovieCrewEntries(details.Credits.Crew))
	})
	s.try(group, item, "certifications", func() error {
		return s.saver.SaveCertifications(groupCtx, mediaID, FlattenReleaseDates(details.ReleaseDates.Results))
	})
	s.try(group, item, "streaming_providers", func() error {
		return s.saver.SaveStreamingProviders(groupCtx, mediaID, details.WatchProviders)
	})
	s.try(group, item, "images", func() error {
		return s.saver.SaveImages(groupCtx, mediaID, details.Images)
	})
	s.try(group, item, "videos", func() error {
		return s.saver.SaveVideos(groupCtx, mediaID, details.Videos)
	})
	s.try(group, item, "production_companies", func() error {
		return s.saver.SaveProductionCompanies(groupCtx, mediaID, details.ProductionCompanies)
	})
	s.try(group, item, "translations", func() error {
		return s.saver.SaveTranslations(groupCtx, mediaID, details.Translations)
	})
	s.try(group, item, "relations", func() error {
		return s.saver.SaveRelations(groupCtx, mediaID, details.Recommendations, details.Similar)
	})
	_ = group.Wait()

	return mediaID, details.Title, details.Raw, nil
}

func (s *TMDBDetails) processTV(ctx context.Context, item datasource.WorkItem) (int64, string, []byte, error) {
	details, err := s.client.TVDetails(ctx, item.TmdbID)
	if err != nil {
		return 0, "", nil, fmt.Errorf("fetch tv %d: %w", item.TmdbID, err)
	}

	mediaID, err := s.saver.SaveTV(ctx, details)
	if err != nil {
		return 0, "", nil, err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	s.try(group, item, "genres", func() error {
		return s.saver.SaveGenres(groupCtx, mediaID, details.Genres)
	})
	s.try(group, item, "keywords", func() error {
		return s.saver.SaveKeywords(groupCtx, mediaID, details.Keywords.Results)
	})
	s.try(group, item, "alternative_titles", func() error {
		return s.saver.SaveAlternativeTitles(groupCtx, mediaID, details.AlternativeTitles.Results)
	})
	s.try(group, item, "credits", func() error {
		if err := s.saver.SaveCast(groupCtx, mediaID, TVCastEntries(details.AggregateCredits.Cast)); err != nil {
			return err
		}
		return s.saver.SaveCrew(groupCtx, mediaID, TVCrewEntries(details.AggregateCredits.Crew))
	})
	s.try(group, item, "certifications", func() error {
		return s.saver.SaveCertifications(groupCtx, mediaID, FlattenContentRatings(details.ContentRatings.Results))
	})
	s.try(group, item, "streaming_providers", func() error {
		return s.saver.SaveStreamingProviders(groupCtx, mediaID, details.WatchProviders)
	})
	s.try(group, item, "images", func() error {
		return s.saver.SaveImages(groupCtx, mediaID, details.Images)
	})
	s.try(group, item, "videos", func() error {
		return s.saver.SaveVideos(groupCtx, mediaID, details.Videos)
	})
	s.try(group, item, "production_companies", func() error {
		return s.saver.SaveProductionCompanies(groupCtx, mediaID, details.ProductionCompanies)
	})
	s.try(group, item, "networks", func() error {
		return s.saver.SaveNetworks(groupCtx, mediaID, details.Networks)
	})
	s.try(group, item, "translations", func() error {
		return s.saver.SaveTranslations(groupCtx, mediaID, details.Translations)
	})
	s.try(group, item, "relations", func() error {
		return s.saver.SaveRelations(groupCtx, mediaID, details.Recommendations, details.Similar)
	})
	s.try(group, item, "seasons", func() error {
		return s.saver.SaveSeasons(groupCtx, mediaID, details.Seasons)
	})
	_ = group.Wait()

	return mediaID, details.Name, details.Raw, nil
}

// try runs one dependent save concurrently, logging failures instead of
// propagating them.
func (s *TMDBDetails) try(group *errgroup.Group, item datasource.WorkItem, name string, fn func() error) {
	group.Go(func() error {
		if err := fn(); err != nil {
			s.logger.Warn("dependent save failed",
				zap.String("save", name),
				zap.Int("tmdb_id", item.TmdbID),
				zap.Int("media_type_id", item.MediaTypeID),
				zap.Error(err),
			)
		}
		return nil
	})
}

func (s *TMDBDetails) archivePayload(ctx context.Context, item datasource.WorkItem, raw []byte, now time.Time) {
	if len(raw) == 0 {
		return
	}
	objectName := archive.ObjectName(s.Config().Name, item.MediaTypeID, item.TmdbID, now)
	if err := s.archive.Put(ctx, objectName, raw); err != nil {
		s.logger.Warn("payload archive failed",
			zap.String("object", objectName),
			zap.Error(err),
		)
	}
}

func (s *TMDBDetails) publishUpdate(ctx context.Context, item datasource.WorkItem, mediaID int64, title string, now time.Time) {
	payload := publisher.MediaUpdated{
		TmdbID:      item.TmdbID,
		MediaTypeID: item.MediaTypeID,
		MediaID:     mediaID,
		Title:       title,
		DataSource:  s.Config().Name,
		UpdatedAt:   now.Format(time.RFC3339),
	}
	if _, err := s.events.Publish(ctx, mediaUpdatedTopic, payload); err != nil {
		s.logger.Warn("event publish failed",
			zap.Int("tmdb_id", item.TmdbID),
			zap.Error(err),
		)
	}
}
