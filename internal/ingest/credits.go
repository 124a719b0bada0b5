package ingest

import (
	"context"
	"fmt"

	"github.com/goodwatch/goodwatch-crawler/internal/db"
	"github.com/goodwatch/goodwatch-crawler/internal/tmdb"
)

// CastEntry is one cast credit normalized across the movie and tv payload
// shapes. TV credits carry episode counts and possibly several roles; only
// the first role is stored.
type CastEntry struct {
	PersonTmdbID       int
	Name               string
	Popularity         float64
	Gender             int
	KnownForDepartment string
	ProfilePath        string
	Adult              bool
	Character          string
	EpisodeCount       int
	DisplayPriority    int
}

// CrewEntry is one crew credit normalized across the movie and tv payload
// shapes. Only the first job of a tv credit is stored.
type CrewEntry struct {
	PersonTmdbID       int
	Name               string
	Popularity         float64
	Gender             int
	KnownForDepartment string
	ProfilePath        string
	Adult              bool
	Job                string
	Department         string
	EpisodeCount       int
}

// MovieCastEntries converts the movie credits payload.
func MovieCastEntries(cast []tmdb.CastMember) []CastEntry {
	entries := make([]CastEntry, len(cast))
	for i, member := range cast {
		entries[i] = CastEntry{
			PersonTmdbID:       member.ID,
			Name:               member.Name,
			Popularity:         member.Popularity,
			Gender:             member.Gender,
			KnownForDepartment: member.KnownForDepartment,
			ProfilePath:        member.ProfilePath,
			Adult:              member.Adult,
			Character:          member.Character,
			DisplayPriority:    member.Order,
		}
	}
	return entries
}

// TVCastEntries converts the tv aggregate credits payload.
func TVCastEntries(cast []tmdb.AggregateCastMember) []CastEntry {
	entries := make([]CastEntry, len(cast))
	for i, member := range cast {
		character := ""
		if len(member.Roles) > 0 {
			character = member.Roles[0].Character
		}
		entries[i] = CastEntry{
			PersonTmdbID:       member.ID,
			Name:               member.Name,
			Popularity:         member.Popularity,
			Gender:             member.Gender,
			KnownForDepartment: member.KnownForDepartment,
			ProfilePath:        member.ProfilePath,
			Adult:              member.Adult,
			Character:          character,
			EpisodeCount:       member.TotalEpisodeCount,
			DisplayPriority:    member.Order,
		}
	}
	return entries
}

// MovieCrewEntries converts the movie credits payload.
func MovieCrewEntries(crew []tmdb.CrewMember) []CrewEntry {
	entries := make([]CrewEntry, len(crew))
	for i, member := range crew {
		entries[i] = CrewEntry{
			PersonTmdbID:       member.ID,
			Name:               member.Name,
			Popularity:         member.Popularity,
			Gender:             member.Gender,
			KnownForDepartment: member.KnownForDepartment,
			ProfilePath:        member.ProfilePath,
			Adult:              member.Adult,
			Job:                member.Job,
			Department:         member.Department,
		}
	}
	return entries
}

// TVCrewEntries converts the tv aggregate credits payload.
func TVCrewEntries(crew []tmdb.AggregateCrewMember) []CrewEntry {
	entries := make([]CrewEntry, len(crew))
	for i, member := range crew {
		job := ""
		if len(member.Jobs) > 0 {
			job = member.Jobs[0].Job
		}
		entries[i] = CrewEntry{
			PersonTmdbID:       member.ID,
			Name:               member.Name,
			Popularity:         member.Popularity,
			Gender:             member.Gender,
			KnownForDepartment: member.KnownForDepartment,
			ProfilePath:        member.ProfilePath,
			Adult:              member.Adult,
			Job:                job,
			Department:         member.Department,
			EpisodeCount:       member.TotalEpisodeCount,
		}
	}
	return entries
}

// dedupeCast keeps the first credit per person. TMDB lists a person once
// per character in movie credits.
func dedupeCast(cast []CastEntry) []CastEntry {
	seen := map[int]bool{}
	out := cast[:0:0]
	for _, entry := range cast {
		if seen[entry.PersonTmdbID] {
			continue
		}
		seen[entry.PersonTmdbID] = true
		out = append(out, entry)
	}
	return out
}

func dedupeCrew(crew []CrewEntry) []CrewEntry {
	seen := map[int]bool{}
	out := crew[:0:0]
	for _, entry := range crew {
		if seen[entry.PersonTmdbID] {
			continue
		}
		seen[entry.PersonTmdbID] = true
		out = append(out, entry)
	}
	return out
}

// savePeople upserts the shared people rows and returns tmdb id -> person id.
func (s *Saver) savePeople(
	ctx context.Context,
	tmdbIDs, names, popularities, genders, departments, profilePaths, adults []any,
) (map[int64]int64, error) {
	peopleBatch := db.Batch{Columns: []db.Column{
		column("tmdb_id", db.TypeBigint, tmdbIDs),
		column("name", db.TypeText, names),
		column("popularity", db.TypeNumeric, popularities),
		column("gender", db.TypeText, genders),
		column("known_for_department", db.TypeText, departments),
		column("profile_path", db.TypeText, profilePaths),
		column("adult", db.TypeBoolean, adults),
	}}
	result, err := s.bulk(ctx, "people", peopleBatch, []string{"tmdb_id"}, []string{"id", "tmdb_id"})
	if err != nil {
		return nil, err
	}

	ids := make(map[int64]int64, len(result.All))
	for _, row := range result.All {
		id, err := rowID(row)
		if err != nil {
			return nil, err
		}
		personTmdbID, ok := rowInt(row, "tmdb_id")
		if !ok {
			return nil, fmt.Errorf("unexpected tmdb_id type %T", row["tmdb_id"])
		}
		ids[personTmdbID] = id
	}
	return ids, nil
}

// SaveCast upserts people and the media cast links.
func (s *Saver) SaveCast(ctx context.Context, mediaID int64, cast []CastEntry) error {
	cast = dedupeCast(cast)
	if len(cast) == 0 {
		return nil
	}

	n := len(cast)
	tmdbIDs := make([]any, n)
	names := make([]any, n)
	popularities := make([]any, n)
	genders := make([]any, n)
	departments := make([]any, n)
	profilePaths := make([]any, n)
	adults := make([]any, n)
	for i, entry := range cast {
		tmdbIDs[i] = entry.PersonTmdbID
		names[i] = entry.Name
		popularities[i] = entry.Popularity
		genders[i] = GenderName(entry.Gender)
		departments[i] = entry.KnownForDepartment
		profilePaths[i] = entry.ProfilePath
		adults[i] = entry.Adult
	}
	personIDs, err := s.savePeople(ctx, tmdbIDs, names, popularities, genders, departments, profilePaths, adults)
	if err != nil {
		return fmt.Errorf("save cast people: %w", err)
	}

	mediaIDs := make([]any, 0, n)
	linkedPersonIDs := make([]any, 0, n)
	characters := make([]any, 0, n)
	episodeCounts := make([]any, 0, n)
	priorities := make([]any, 0, n)
	for _, entry := range cast {
		personID, ok := personIDs[int64(entry.PersonTmdbID)]
		if !ok {
			continue
		}
		mediaIDs = append(mediaIDs, mediaID)
		linkedPersonIDs = append(linkedPersonIDs, personID)
		characters = append(characters, entry.Character)
		episodeCounts = append(episodeCounts, entry.EpisodeCount)
		priorities = append(priorities, entry.DisplayPriority)
	}

	linkBatch := db.Batch{Columns: []db.Column{
		column("media_id", db.TypeBigint, mediaIDs),
		column("person_id", db.TypeBigint, linkedPersonIDs),
		column("character_name", db.TypeText, characters),
		column("episode_count", db.TypeInteger, episodeCounts),
		column("display_priority", db.TypeInteger, priorities),
	}}
	_, err = s.bulk(ctx, "media_cast", linkBatch,
		[]string{"media_id", "person_id"},
		[]string{"media_id", "person_id"},
	)
	if err != nil {
		return fmt.Errorf("link cast: %w", err)
	}
	return nil
}

// SaveCrew upserts people and the media crew links.
func (s *Saver) SaveCrew(ctx context.Context, mediaID int64, crew []CrewEntry) error {
	crew = dedupeCrew(crew)
	if len(crew) == 0 {
		return nil
	}

	n := len(crew)
	tmdbIDs := make([]any, n)
	names := make([]any, n)
	popularities := make([]any, n)
	genders := make([]any, n)
	departments := make([]any, n)
	profilePaths := make([]any, n)
	adults := make([]any, n)
	for i, entry := range crew {
		tmdbIDs[i] = entry.PersonTmdbID
		names[i] = entry.Name
		popularities[i] = entry.Popularity
		genders[i] = GenderName(entry.Gender)
		departments[i] = entry.KnownForDepartment
		profilePaths[i] = entry.ProfilePath
		adults[i] = entry.Adult
	}
	personIDs, err := s.savePeople(ctx, tmdbIDs, names, popularities, genders, departments, profilePaths, adults)
	if err != nil {
		return fmt.Errorf("save crew people: %w", err)
	}

	mediaIDs := make([]any, 0, n)
	linkedPersonIDs := make([]any, 0, n)
	jobs := make([]any, 0, n)
	crewDepartments := make([]any, 0, n)
	episodeCounts := make([]any, 0, n)
	priorities := make([]any, 0, n)
	for _, entry := range crew {
		personID, ok := personIDs[int64(entry.PersonTmdbID)]
		if !ok {
			continue
		}
		mediaIDs = append(mediaIDs, mediaID)
		linkedPersonIDs = append(linkedPersonIDs, personID)
		jobs = append(jobs, entry.Job)
		crewDepartments = append(crewDepartments, entry.Department)
		episodeCounts = append(episodeCounts, entry.EpisodeCount)
		priorities = append(priorities, entry.Popularity)
	}

	linkBatch := db.Batch{Columns: []db.Column{
		column("media_id", db.TypeBigint, mediaIDs),
		column("person_id", db.TypeBigint, linkedPersonIDs),
		column("job", db.TypeText, jobs),
		column("department", db.TypeText, crewDepartments),
		column("episode_count", db.TypeInteger, episodeCounts),
		column("display_priority", db.TypeNumeric, priorities),
	}}
	_, err = s.bulk(ctx, "media_crew", linkBatch,
		[]string{"media_id", "person_id"},
		[]string{"media_id", "person_id"},
	)
	if err != nil {
		return fmt.Errorf("link crew: %w", err)
	}
	return nil
}
