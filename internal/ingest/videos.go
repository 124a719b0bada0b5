package ingest

import (
	"context"
	"fmt"

	"github.com/goodwatch/goodwatch-crawler/internal/db"
	"github.com/goodwatch/goodwatch-crawler/internal/tmdb"
)

// SaveVideos bulk upserts trailers, teasers and clips for one media entity.
func (s *Saver) SaveVideos(ctx context.Context, mediaID int64, videos tmdb.Videos) error {
	if len(videos.Results) == 0 {
		return nil
	}

	n := len(videos.Results)
	sites := make([]any, n)
	keys := make([]any, n)
	names := make([]any, n)
	videoTypes := make([]any, n)
	languageCodes := make([]any, n)
	countryCodes := make([]any, n)
	publishedAts := make([]any, n)
	officials := make([]any, n)
	for i, video := range videos.Results {
		sites[i] = video.Site
		keys[i] = video.Key
		names[i] = video.Name
		videoTypes[i] = video.Type
		languageCodes[i] = textOrNil(video.ISO639_1)
		countryCodes[i] = textOrNil(video.ISO3166_1)
		publishedAts[i] = textOrNil(video.PublishedAt)
		officials[i] = video.Official
	}

	batch := db.Batch{Columns: []db.Column{
		column("media_id", db.TypeBigint, repeatValue(mediaID, n)),
		column("site", db.TypeText, sites),
		column("video_key", db.TypeText, keys),
		column("name", db.TypeText, names),
		column("video_type", db.TypeText, videoTypes),
		column("language_code", db.TypeText, languageCodes),
		column("country_code", db.TypeText, countryCodes),
		column("published_at", db.TypeTimestamp, publishedAts),
		column("official", db.TypeBoolean, officials),
	}}
	_, err := s.bulk(ctx, "media_videos", batch,
		[]string{"media_id", "site", "video_key"},
		[]string{"media_id", "video_key"},
	)
	if err != nil {
		return fmt.Errorf("save videos: %w", err)
	}
	return nil
}
