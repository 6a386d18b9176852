package models

import "time"

// FavoritedMovie is the locally persisted, denormalized copy of a favorite.
// TMDB remains the source of truth; this row exists so favorites can be
// listed and annotated without a credential. At most one row per
// (account_id, movie_id).
type FavoritedMovie struct {
	AccountID   int64     `json:"account_id"`
	MovieID     int64     `json:"movie_id"`
	Title       string    `json:"title"`
	Overview    string    `json:"overview"`
	PosterPath  string    `json:"poster_path"`
	ReleaseDate string    `json:"release_date"`
	GenreIDs    []int64   `json:"genre_ids"`
	VoteAverage float64   `json:"vote_average"`
	CreatedAt   time.Time `json:"created_at"`
}

// SharedList is a published pointer from a human-chosen name to a TMDB
// account. One active name per account; names are unique case-insensitively.
type SharedList struct {
	AccountID int64     `json:"account_id"`
	ListName  string    `json:"list_name"`
	CreatedAt time.Time `json:"created_at"`
}

// ToggleFavoriteInput is the inbound body for the favorite toggle endpoint.
// The display fields are optional; when present they are mirrored into the
// local favorited_movies row on a successful favorite.
type ToggleFavoriteInput struct {
	AccountID int64  `json:"account_id"`
	MovieID   int64  `json:"movie_id"`
	Favorite  *bool  `json:"favorite,omitempty"`
	MediaType string `json:"media_type,omitempty"`

	Title       string  `json:"title,omitempty"`
	Overview    string  `json:"overview,omitempty"`
	PosterPath  string  `json:"poster_path,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	GenreIDs    []int64 `json:"genre_ids,omitempty"`
	VoteAverage float64 `json:"vote_average,omitempty"`
}
