package ingest

import (
	"context"
	"fmt"
	"sort"

	"github.com/goodwatch/goodwatch-crawler/internal/db"
	"github.com/goodwatch/goodwatch-crawler/internal/tmdb"
)

// FlatProvider is one streaming availability entry: a provider offering the
// media in one country under one monetization type.
type FlatProvider struct {
	Name            string
	Type            string
	LogoPath        string
	CountryCode     string
	DisplayPriority float64
}

// FlattenWatchProviders explodes the watch/providers payload into one entry
// per (country, monetization type, provider). Countries are walked in
// sorted order so output is deterministic.
func FlattenWatchProviders(providers tmdb.WatchProviders) []FlatProvider {
	countryCodes := make([]string, 0, len(providers.Results))
	for code := range providers.Results {
		countryCodes = append(countryCodes, code)
	}
	sort.Strings(countryCodes)

	var out []FlatProvider
	for _, countryCode := range countryCodes {
		data := providers.Results[countryCode]
		for _, group := range []struct {
			kind    string
			entries []tmdb.Provider
		}{
			{"flatrate", data.Flatrate},
			{"rent", data.Rent},
			{"buy", data.Buy},
			{"free", data.Free},
			{"ads", data.Ads},
		} {
			for _, provider := range group.entries {
				out = append(out, FlatProvider{
					Name:            provider.ProviderName,
					Type:            group.kind,
					LogoPath:        provider.LogoPath,
					CountryCode:     countryCode,
					DisplayPriority: provider.DisplayPriority,
				})
			}
		}
	}
	return out
}

// SaveStreamingProviders upserts the provider vocabulary and one
// availability link per flattened entry.
func (s *Saver) SaveStreamingProviders(ctx context.Context, mediaID int64, providers tmdb.WatchProviders) error {
	flattened := FlattenWatchProviders(providers)
	if len(flattened) == 0 {
		return nil
	}

	// Vocabulary rows are unique by name; the first occurrence wins.
	var unique []FlatProvider
	seen := map[string]bool{}
	for _, provider := range flattened {
		if seen[provider.Name] {
			continue
		}
		seen[provider.Name] = true
		unique = append(unique, provider)
	}

	names := make([]any, len(unique))
	logoPaths := make([]any, len(unique))
	priorities := make([]any, len(unique))
	for i, provider := range unique {
		names[i] = provider.Name
		logoPaths[i] = provider.LogoPath
		priorities[i] = provider.DisplayPriority
	}
	providerBatch := db.Batch{Columns: []db.Column{
		column("name", db.TypeText, names),
		column("logo_path", db.TypeText, logoPaths),
		column("display_priority", db.TypeNumeric, priorities),
	}}
	providerResult, err := s.bulk(ctx, "streaming_providers", providerBatch, []string{"name"}, []string{"id", "name"})
	if err != nil {
		return fmt.Errorf("save streaming providers: %w", err)
	}

	providerIDs := make(map[string]int64, len(providerResult.All))
	for _, row := range providerResult.All {
		id, err := rowID(row)
		if err != nil {
			return fmt.Errorf("save streaming providers: %w", err)
		}
		name, _ := row["name"].(string)
		providerIDs[name] = id
	}

	mediaIDs := make([]any, 0, len(flattened))
	linkedProviderIDs := make([]any, 0, len(flattened))
	streamingTypes := make([]any, 0, len(flattened))
	countryCodes := make([]any, 0, len(flattened))
	for _, provider := range flattened {
		providerID, ok := providerIDs[provider.Name]
		if !ok {
			continue
		}
		mediaIDs = append(mediaIDs, mediaID)
		linkedProviderIDs = append(linkedProviderIDs, providerID)
		streamingTypes = append(streamingTypes, provider.Type)
		countryCodes = append(countryCodes, provider.CountryCode)
	}

	linkBatch := db.Batch{Columns: []db.Column{
		column("media_id", db.TypeBigint, mediaIDs),
		column("streaming_provider_id", db.TypeBigint, linkedProviderIDs),
		column("streaming_type", db.TypeText, streamingTypes),
		column("country_code", db.TypeText, countryCodes),
	}}
	conflictCols := []string{"media_id", "streaming_provider_id", "streaming_type", "country_code"}
	_, err = s.bulk(ctx, "media_streaming_providers", linkBatch, conflictCols, conflictCols)
	if err != nil {
		return fmt.Errorf("link streaming providers: %w", err)
	}
	return nil
}
