package ingest

import (
	"context"
	"fmt"

	"github.com/goodwatch/goodwatch-crawler/internal/db"
	"github.com/goodwatch/goodwatch-crawler/internal/tmdb"
)

// SaveAlternativeTitles bulk upserts every alternative title. Country names
// that cannot be resolved to an alpha-2 code are stored with a NULL
// language code rather than dropped.
func (s *Saver) SaveAlternativeTitles(ctx context.Context, mediaID int64, titles []tmdb.AlternativeTitle) error {
	if len(titles) == 0 {
		return nil
	}

	n := len(titles)
	titleValues := make([]any, n)
	typeValues := make([]any, n)
	languageCodes := make([]any, n)
	for i, title := range titles {
		titleValues[i] = title.Title
		typeValues[i] = textOrNil(title.Type)
		languageCodes[i] = textOrNil(ConvertCountryNameToCode(title.ISO3166_1))
	}

	batch := db.Batch{Columns: []db.Column{
		column("media_id", db.TypeBigint, repeatValue(mediaID, n)),
		column("title", db.TypeText, titleValues),
		column("type", db.TypeText, typeValues),
		column("language_code", db.TypeText, languageCodes),
	}}
	conflictCols := []string{"media_id", "title", "type", "language_code"}
	_, err := s.bulk(ctx, "media_alternative_titles", batch, conflictCols, conflictCols)
	if err != nil {
		return fmt.Errorf("save alternative titles: %w", err)
	}
	return nil
}
