package ingest

import (
	"context"
	"fmt"

	"github.com/goodwatch/goodwatch-crawler/internal/db"
	"github.com/goodwatch/goodwatch-crawler/internal/tmdb"
)

// SaveProductionCompanies upserts the production company vocabulary and the
// media links.
func (s *Saver) SaveProductionCompanies(ctx context.Context, mediaID int64, companies []tmdb.Company) error {
	return s.saveCompanies(ctx, mediaID, companies,
		"production_companies", "media_production_companies", "production_company_id")
}

// SaveNetworks upserts the tv network vocabulary and the media links.
func (s *Saver) SaveNetworks(ctx context.Context, mediaID int64, networks []tmdb.Company) error {
	return s.saveCompanies(ctx, mediaID, networks,
		"networks", "media_networks", "network_id")
}

// saveCompanies is shared between production companies and networks; both
// payloads carry the same shape.
func (s *Saver) saveCompanies(
	ctx context.Context,
	mediaID int64,
	companies []tmdb.Company,
	table, linkTable, linkColumn string,
) error {
	if len(companies) == 0 {
		return nil
	}

	n := len(companies)
	tmdbIDs := make([]any, n)
	names := make([]any, n)
	logoPaths := make([]any, n)
	countryCodes := make([]any, n)
	for i, company := range companies {
		tmdbIDs[i] = company.ID
		names[i] = company.Name
		logoPaths[i] = company.LogoPath
		countryCodes[i] = textOrNil(company.OriginCountry)
	}
	companyBatch := db.Batch{Columns: []db.Column{
		column("tmdb_id", db.TypeBigint, tmdbIDs),
		column("name", db.TypeText, names),
		column("logo_path", db.TypeText, logoPaths),
		column("origin_country_code", db.TypeText, countryCodes),
	}}
	companyResult, err := s.bulk(ctx, table, companyBatch, []string{"tmdb_id"}, []string{"id"})
	if err != nil {
		return fmt.Errorf("save %s: %w", table, err)
	}

	companyIDs := make([]any, 0, len(companyResult.All))
	for _, row := range companyResult.All {
		id, err := rowID(row)
		if err != nil {
			return fmt.Errorf("save %s: %w", table, err)
		}
		companyIDs = append(companyIDs, id)
	}
	if len(companyIDs) == 0 {
		return nil
	}

	linkBatch := db.Batch{Columns: []db.Column{
		column("media_id", db.TypeBigint, repeatValue(mediaID, len(companyIDs))),
		column(linkColumn, db.TypeBigint, companyIDs),
	}}
	_, err = s.bulk(ctx, linkTable, linkBatch,
		[]string{"media_id", linkColumn},
		[]string{"media_id", linkColumn},
	)
	if err != nil {
		return fmt.Errorf("link %s: %w", table, err)
	}
	return nil
}
