package ingest

import (
	"context"
	"fmt"

	"github.com/goodwatch/goodwatch-crawler/internal/db"
	"github.com/goodwatch/goodwatch-crawler/internal/tmdb"
)

// SaveTranslations bulk upserts localized text for one media entity. Movie
// translations carry the title in data.title, tv in data.name.
func (s *Saver) SaveTranslations(ctx context.Context, mediaID int64, translations tmdb.Translations) error {
	if len(translations.Translations) == 0 {
		return nil
	}

	n := len(translations.Translations)
	countryCodes := make([]any, n)
	languageCodes := make([]any, n)
	titles := make([]any, n)
	overviews := make([]any, n)
	taglines := make([]any, n)
	homepages := make([]any, n)
	for i, translation := range translations.Translations {
		title := translation.Data.Title
		if title == "" {
			title = translation.Data.Name
		}
		countryCodes[i] = translation.ISO3166_1
		languageCodes[i] = translation.ISO639_1
		titles[i] = textOrNil(title)
		overviews[i] = textOrNil(translation.Data.Overview)
		taglines[i] = textOrNil(translation.Data.Tagline)
		homepages[i] = textOrNil(translation.Data.Homepage)
	}

	batch := db.Batch{Columns: []db.Column{
		column("media_id", db.TypeBigint, repeatValue(mediaID, n)),
		column("country_code", db.TypeText, countryCodes),
		column("language_code", db.TypeText, languageCodes),
		column("title", db.TypeText, titles),
		column("overview", db.TypeText, overviews),
		column("tagline", db.TypeText, taglines),
		column("homepage", db.TypeText, homepages),
	}}
	_, err := s.bulk(ctx, "media_translations", batch,
		[]string{"media_id", "country_code", "language_code"},
		[]string{"media_id", "language_code"},
	)
	if err != nil {
		return fmt.Errorf("save translations: %w", err)
	}
	return nil
}
