package ingest

import (
	"context"
	"fmt"

	"github.com/goodwatch/goodwatch-crawler/internal/db"
	"github.com/goodwatch/goodwatch-crawler/internal/tmdb"
)

// SaveImages bulk upserts posters, backdrops and logos for one media
// entity, tagged by image type.
func (s *Saver) SaveImages(ctx context.Context, mediaID int64, images tmdb.Images) error {
	type taggedImage struct {
		kind  string
		image tmdb.Image
	}
	var tagged []taggedImage
	for _, image := range images.Posters {
		tagged = append(tagged, taggedImage{"poster", image})
	}
	for _, image := range images.Backdrops {
		tagged = append(tagged, taggedImage{"backdrop", image})
	}
	for _, image := range images.Logos {
		tagged = append(tagged, taggedImage{"logo", image})
	}
	if len(tagged) == 0 {
		return nil
	}

	n := len(tagged)
	imageTypes := make([]any, n)
	filePaths := make([]any, n)
	languageCodes := make([]any, n)
	widths := make([]any, n)
	heights := make([]any, n)
	voteAverages := make([]any, n)
	voteCounts := make([]any, n)
	for i, entry := range tagged {
		imageTypes[i] = entry.kind
		filePaths[i] = entry.image.FilePath
		languageCodes[i] = textOrNil(entry.image.ISO639_1)
		widths[i] = entry.image.Width
		heights[i] = entry.image.Height
		voteAverages[i] = entry.image.VoteAverage
		voteCounts[i] = entry.image.VoteCount
	}

	batch := db.Batch{Columns: []db.Column{
		column("media_id", db.TypeBigint, repeatValue(mediaID, n)),
		column("image_type", db.TypeText, imageTypes),
		column("file_path", db.TypeText, filePaths),
		column("language_code", db.TypeText, languageCodes),
		column("width", db.TypeInteger, widths),
		column("height", db.TypeInteger, heights),
		column("vote_average", db.TypeNumeric, voteAverages),
		column("vote_count", db.TypeInteger, voteCounts),
	}}
	_, err := s.bulk(ctx, "media_images", batch,
		[]string{"media_id", "image_type", "file_path"},
		[]string{"media_id", "file_path"},
	)
	if err != nil {
		return fmt.Errorf("save images: %w", err)
	}
	return nil
}
