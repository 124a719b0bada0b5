package ingest

import (
	"context"
	"fmt"

	"github.com/goodwatch/goodwatch-crawler/internal/db"
	"github.com/goodwatch/goodwatch-crawler/internal/tmdb"
)

// Certification is one flattened age rating, either a dated movie release
// entry or a country-level tv rating.
type Certification struct {
	Certification string
	CountryCode   string
	LanguageCode  string
	ReleaseType   string
	ReleaseDate   string
	Note          string
}

// FlattenReleaseDates explodes the movie release_dates payload into one
// certification per dated entry.
func FlattenReleaseDates(results []tmdb.ReleaseDatesResult) []Certification {
	var out []Certification
	for _, result := range results {
		for _, release := range result.ReleaseDates {
			out = append(out, Certification{
				Certification: release.Certification,
				CountryCode:   result.ISO3166_1,
				LanguageCode:  release.ISO639_1,
				ReleaseType:   ReleaseTypeName(release.Type),
				ReleaseDate:   release.ReleaseDate,
				Note:          release.Note,
			})
		}
	}
	return out
}

// FlattenContentRatings converts the tv content_ratings payload. TV ratings
// carry no release date or type.
func FlattenContentRatings(results []tmdb.ContentRating) []Certification {
	var out []Certification
	for _, result := range results {
		if result.Rating == "" {
			continue
		}
		out = append(out, Certification{
			Certification: result.Rating,
			CountryCode:   result.ISO3166_1,
		})
	}
	return out
}

// SaveCertifications bulk upserts the flattened certifications for one
// media entity.
func (s *Saver) SaveCertifications(ctx context.Context, mediaID int64, certifications []Certification) error {
	if len(certifications) == 0 {
		return nil
	}

	n := len(certifications)
	certs := make([]any, n)
	countryCodes := make([]any, n)
	languageCodes := make([]any, n)
	releaseTypes := make([]any, n)
	releaseDates := make([]any, n)
	notes := make([]any, n)
	for i, certification := range certifications {
		certs[i] = certification.Certification
		countryCodes[i] = certification.CountryCode
		languageCodes[i] = textOrNil(certification.LanguageCode)
		releaseTypes[i] = textOrNil(certification.ReleaseType)
		releaseDates[i] = textOrNil(certification.ReleaseDate)
		notes[i] = textOrNil(certification.Note)
	}

	batch := db.Batch{Columns: []db.Column{
		column("media_id", db.TypeBigint, repeatValue(mediaID, n)),
		column("certification", db.TypeText, certs),
		column("country_code", db.TypeText, countryCodes),
		column("language_code", db.TypeText, languageCodes),
		column("release_type", db.TypeText, releaseTypes),
		column("release_date", db.TypeDate, releaseDates),
		column("note", db.TypeText, notes),
	}}
	conflictCols := []string{"media_id", "certification", "country_code", "language_code", "release_type"}
	_, err := s.bulk(ctx, "media_certifications", batch, conflictCols, conflictCols)
	if err != nil {
		return fmt.Errorf("save certifications: %w", err)
	}
	return nil
}
