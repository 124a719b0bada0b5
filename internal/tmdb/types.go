package tmdb

import "encoding/json"

// Genre is a TMDB genre entry.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Keyword is a TMDB keyword entry.
type Keyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// AlternativeTitle is one localized or tagged title variant.
type AlternativeTitle struct {
	ISO3166_1 string `json:"iso_3166_1"`
	Title     string `json:"title"`
	Type      string `json:"type"`
}

// CastMember is one movie cast credit.
type CastMember struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	Popularity         float64 `json:"popularity"`
	Gender             int     `json:"gender"`
	KnownForDepartment string  `json:"known_for_department"`
	ProfilePath        string  `json:"profile_path"`
	Adult              bool    `json:"adult"`
	Character          string  `json:"character"`
	Order              int     `json:"order"`
}

// CrewMember is one movie crew credit.
type CrewMember struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	Popularity         float64 `json:"popularity"`
	Gender             int     `json:"gender"`
	KnownForDepartment string  `json:"known_for_department"`
	ProfilePath        string  `json:"profile_path"`
	Adult              bool    `json:"adult"`
	Job                string  `json:"job"`
	Department         string  `json:"department"`
}

// AggregateRole is one of possibly several characters a tv cast member played.
type AggregateRole struct {
	Character    string `json:"character"`
	EpisodeCount int    `json:"episode_count"`
}

// AggregateCastMember is one tv cast credit across all seasons.
type AggregateCastMember struct {
	ID                 int             `json:"id"`
	Name               string          `json:"name"`
	Popularity         float64         `json:"popularity"`
	Gender             int             `json:"gender"`
	KnownForDepartment string          `json:"known_for_department"`
	ProfilePath        string          `json:"profile_path"`
	Adult              bool            `json:"adult"`
	Roles              []AggregateRole `json:"roles"`
	TotalEpisodeCount  int             `json:"total_episode_count"`
	Order              int             `json:"order"`
}

// AggregateJob is one of possibly several jobs a tv crew member held.
type AggregateJob struct {
	Job          string `json:"job"`
	EpisodeCount int    `json:"episode_count"`
}

// AggregateCrewMember is one tv crew credit across all seasons.
type AggregateCrewMember struct {
	ID                 int            `json:"id"`
	Name               string         `json:"name"`
	Popularity         float64        `json:"popularity"`
	Gender             int            `json:"gender"`
	KnownForDepartment string         `json:"known_for_department"`
	ProfilePath        string         `json:"profile_path"`
	Adult              bool           `json:"adult"`
	Jobs               []AggregateJob `json:"jobs"`
	Department         string         `json:"department"`
	TotalEpisodeCount  int            `json:"total_episode_count"`
}

// ReleaseDate is one dated release entry inside a country's release dates.
type ReleaseDate struct {
	Certification string `json:"certification"`
	ISO639_1      string `json:"iso_639_1"`
	Type          int    `json:"type"`
	ReleaseDate   string `json:"release_date"`
	Note          string `json:"note"`
}

// ReleaseDatesResult groups release dates by country.
type ReleaseDatesResult struct {
	ISO3166_1    string        `json:"iso_3166_1"`
	ReleaseDates []ReleaseDate `json:"release_dates"`
}

// ContentRating is a tv certification for one country.
type ContentRating struct {
	ISO3166_1 string `json:"iso_3166_1"`
	Rating    string `json:"rating"`
}

// Provider is one streaming provider entry.
type Provider struct {
	ProviderName    string  `json:"provider_name"`
	LogoPath        string  `json:"logo_path"`
	DisplayPriority float64 `json:"display_priority"`
}

// ProviderData groups a country's providers by monetization type.
type ProviderData struct {
	Link     string     `json:"link"`
	Flatrate []Provider `json:"flatrate"`
	Rent     []Provider `json:"rent"`
	Buy      []Provider `json:"buy"`
	Free     []Provider `json:"free"`
	Ads      []Provider `json:"ads"`
}

// WatchProviders is the watch/providers append payload.
type WatchProviders struct {
	Results map[string]ProviderData `json:"results"`
}

// Image is one poster or backdrop entry.
type Image struct {
	FilePath    string  `json:"file_path"`
	ISO639_1    string  `json:"iso_639_1"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
}

// Images is the images append payload.
type Images struct {
	Backdrops []Image `json:"backdrops"`
	Posters   []Image `json:"posters"`
	Logos     []Image `json:"logos"`
}

// Video is one trailer/teaser/clip entry.
type Video struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Site        string `json:"site"`
	Type        string `json:"type"`
	ISO639_1    string `json:"iso_639_1"`
	ISO3166_1   string `json:"iso_3166_1"`
	PublishedAt string `json:"published_at"`
	Official    bool   `json:"official"`
}

// Videos is the videos append payload.
type Videos struct {
	Results []Video `json:"results"`
}

// TranslationData carries the translated free-text fields.
type TranslationData struct {
	Title    string `json:"title"`
	Name     string `json:"name"`
	Overview string `json:"overview"`
	Homepage string `json:"homepage"`
	Tagline  string `json:"tagline"`
}

// Translation is one localized translation entry.
type Translation struct {
	ISO3166_1   string          `json:"iso_3166_1"`
	ISO639_1    string          `json:"iso_639_1"`
	Name        string          `json:"name"`
	EnglishName string          `json:"english_name"`
	Data        TranslationData `json:"data"`
}

// Translations is the translations append payload.
type Translations struct {
	Translations []Translation `json:"translations"`
}

// RelatedMedia is one recommendation/similar/collection-part entry.
type RelatedMedia struct {
	ID         int     `json:"id"`
	MediaType  string  `json:"media_type"`
	Popularity float64 `json:"popularity"`
}

// RelatedResults is the recommendations/similar append payload.
type RelatedResults struct {
	Results []RelatedMedia `json:"results"`
}

// Company is a production company or tv network.
type Company struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	LogoPath      string `json:"logo_path"`
	OriginCountry string `json:"origin_country"`
}

// Season is one tv season listing.
type Season struct {
	ID           int    `json:"id"`
	AirDate      string `json:"air_date"`
	EpisodeCount int    `json:"episode_count"`
	Name         string `json:"name"`
	Overview     string `json:"overview"`
	PosterPath   string `json:"poster_path"`
	SeasonNumber int    `json:"season_number"`
}

// ExternalIDs cross-references other catalogs.
type ExternalIDs struct {
	ImdbID      string `json:"imdb_id"`
	FreebaseMid string `json:"freebase_mid"`
	FreebaseID  string `json:"freebase_id"`
	TvdbID      *int   `json:"tvdb_id"`
	TvrageID    *int   `json:"tvrage_id"`
	WikidataID  string `json:"wikidata_id"`
	FacebookID  string `json:"facebook_id"`
	InstagramID string `json:"instagram_id"`
	TwitterID   string `json:"twitter_id"`
}

// CollectionRef is the stub under a movie's belongs_to_collection.
type CollectionRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Collection is a full movie collection payload.
type Collection struct {
	ID           int            `json:"id"`
	Name         string         `json:"name"`
	Overview     string         `json:"overview"`
	PosterPath   string         `json:"poster_path"`
	BackdropPath string         `json:"backdrop_path"`
	Parts        []RelatedMedia `json:"parts"`

	Raw json.RawMessage `json:"-"`
}

// MovieKeywords wraps the movie keywords append payload.
type MovieKeywords struct {
	Keywords []Keyword `json:"keywords"`
}

// TVKeywords wraps the tv keywords append payload.
type TVKeywords struct {
	Results []Keyword `json:"results"`
}

// MovieCredits is the credits append payload.
type MovieCredits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// AggregateCredits is the tv aggregate_credits append payload.
type AggregateCredits struct {
	Cast []AggregateCastMember `json:"cast"`
	Crew []AggregateCrewMember `json:"crew"`
}

// MovieAlternativeTitles wraps the movie alternative_titles payload.
type MovieAlternativeTitles struct {
	Titles []AlternativeTitle `json:"titles"`
}

// TVAlternativeTitles wraps the tv alternative_titles payload.
type TVAlternativeTitles struct {
	Results []AlternativeTitle `json:"results"`
}

// ReleaseDates wraps the movie release_dates payload.
type ReleaseDates struct {
	Results []ReleaseDatesResult `json:"results"`
}

// ContentRatings wraps the tv content_ratings payload.
type ContentRatings struct {
	Results []ContentRating `json:"results"`
}

// MovieDetails is the full movie payload with appended sub-resources.
type MovieDetails struct {
	ID                  int            `json:"id"`
	Title               string         `json:"title"`
	OriginalTitle       string         `json:"original_title"`
	OriginalLanguage    string         `json:"original_language"`
	Overview            string         `json:"overview"`
	Tagline             string         `json:"tagline"`
	ReleaseDate         string         `json:"release_date"`
	Popularity          float64        `json:"popularity"`
	Status              string         `json:"status"`
	PosterPath          string         `json:"poster_path"`
	BackdropPath        string         `json:"backdrop_path"`
	Homepage            string         `json:"homepage"`
	Adult               bool           `json:"adult"`
	Runtime             int            `json:"runtime"`
	Budget              int64          `json:"budget"`
	Revenue             int64          `json:"revenue"`
	ImdbID              string         `json:"imdb_id"`
	BelongsToCollection *CollectionRef `json:"belongs_to_collection"`

	Genres              []Genre                `json:"genres"`
	Keywords            MovieKeywords          `json:"keywords"`
	AlternativeTitles   MovieAlternativeTitles `json:"alternative_titles"`
	Credits             MovieCredits           `json:"credits"`
	ReleaseDates        ReleaseDates           `json:"release_dates"`
	WatchProviders      WatchProviders         `json:"watch/providers"`
	Images              Images                 `json:"images"`
	Videos              Videos                 `json:"videos"`
	ProductionCompanies []Company              `json:"production_companies"`
	Translations        Translations           `json:"translations"`
	Recommendations     RelatedResults         `json:"recommendations"`
	Similar             RelatedResults         `json:"similar"`
	ExternalIDs         ExternalIDs            `json:"external_ids"`

	Raw json.RawMessage `json:"-"`
}

// TVDetails is the full tv payload with appended sub-resources.
type TVDetails struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	OriginalName     string   `json:"original_name"`
	OriginalLanguage string   `json:"original_language"`
	Overview         string   `json:"overview"`
	Tagline          string   `json:"tagline"`
	FirstAirDate     string   `json:"first_air_date"`
	LastAirDate      string   `json:"last_air_date"`
	Popularity       float64  `json:"popularity"`
	Status           string   `json:"status"`
	PosterPath       string   `json:"poster_path"`
	BackdropPath     string   `json:"backdrop_path"`
	Homepage         string   `json:"homepage"`
	Adult            bool     `json:"adult"`
	InProduction     bool     `json:"in_production"`
	Type             string   `json:"type"`
	NumberOfSeasons  int      `json:"number_of_seasons"`
	NumberOfEpisodes int      `json:"number_of_episodes"`
	EpisodeRunTime   []int    `json:"episode_run_time"`
	OriginCountry    []string `json:"origin_country"`

	Genres              []Genre             `json:"genres"`
	Keywords            TVKeywords          `json:"keywords"`
	AlternativeTitles   TVAlternativeTitles `json:"alternative_titles"`
	AggregateCredits    AggregateCredits    `json:"aggregate_credits"`
	ContentRatings      ContentRatings      `json:"content_ratings"`
	WatchProviders      WatchProviders      `json:"watch/providers"`
	Images              Images              `json:"images"`
	Videos              Videos              `json:"videos"`
	ProductionCompanies []Company           `json:"production_companies"`
	Networks            []Company           `json:"networks"`
	Seasons             []Season            `json:"seasons"`
	Translations        Translations        `json:"translations"`
	Recommendations     RelatedResults      `json:"recommendations"`
	Similar             RelatedResults      `json:"similar"`
	ExternalIDs         ExternalIDs         `json:"external_ids"`

	Raw json.RawMessage `json:"-"`
}
