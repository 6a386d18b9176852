package models

// Movie is a single movie entry as returned by TMDB list endpoints
// (discover, search, account favorites).
type Movie struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title,omitempty"`
	Overview      string  `json:"overview"`
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path,omitempty"`
	ReleaseDate   string  `json:"release_date"`
	GenreIDs      []int64 `json:"genre_ids"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int64   `json:"vote_count,omitempty"`
	Popularity    float64 `json:"popularity,omitempty"`
	Adult         bool    `json:"adult,omitempty"`

	// Favorite is stamped locally; TMDB never sends it.
	Favorite bool `json:"favorite"`
}

// MovieList is a paginated TMDB result set.
type MovieList struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`

	// ListName is appended to favorites pages when the account has published
	// a shared list.
	ListName string `json:"list_name,omitempty"`
}

// Genre is a TMDB genre as embedded in movie details.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Video is a trailer or clip, reduced to the fields the frontend plays.
type Video struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// CastCredit is a cast or crew member filtered to Acting/Directing roles.
type CastCredit struct {
	Name               string  `json:"name"`
	ProfilePath        *string `json:"profile_path"`
	Character          string  `json:"character,omitempty"`
	KnownForDepartment string  `json:"known_for_department"`
}

// WatchProvider is one streaming provider entry.
type WatchProvider struct {
	ProviderID   int64  `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

// ProviderRegion is the watch-provider block for a single region.
type ProviderRegion struct {
	Link     string          `json:"link,omitempty"`
	Flatrate []WatchProvider `json:"flatrate,omitempty"`
	Rent     []WatchProvider `json:"rent,omitempty"`
	Buy      []WatchProvider `json:"buy,omitempty"`
}

// MovieDetails is the enriched detail payload: TMDB movie details plus
// filtered videos, regional watch providers, and Acting/Directing credits.
type MovieDetails struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title,omitempty"`
	Overview      string  `json:"overview"`
	Tagline       string  `json:"tagline,omitempty"`
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path,omitempty"`
	ReleaseDate   string  `json:"release_date"`
	Runtime       int     `json:"runtime,omitempty"`
	Status        string  `json:"status,omitempty"`
	Genres        []Genre `json:"genres,omitempty"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int64   `json:"vote_count,omitempty"`
	Popularity    float64 `json:"popularity,omitempty"`

	Videos    []Video         `json:"videos"`
	Providers *ProviderRegion `json:"providers"`
	Credits   []CastCredit    `json:"credits"`
}

// ToggleResult is TMDB's acknowledgement of a favorite write.
type ToggleResult struct {
	Success       bool   `json:"success"`
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
