// Package favorites reconciles the remote TMDB favorite set with local
// state: it produces the complete unpaginated favorite-id set for an account
// and stamps favorite flags onto movie lists.
package favorites

import (
	"context"
	"errors"

	"cinevault/models"
	"cinevault/services/tmdb"
)

var (
	ErrAccountIDRequired = errors.New("account id is required")
	ErrMovieIDRequired   = errors.New("movie id is required")
)

// tmdbAPI is the slice of the TMDB client this service consumes.
type tmdbAPI interface {
	AccountFavorites(ctx context.Context, bearer string, accountID int64, page int) (*models.MovieList, error)
	ToggleFavorite(ctx context.Context, bearer string, accountID, movieID int64, favorite bool, mediaType string) (*models.ToggleResult, int, error)
}

var _ tmdbAPI = (*tmdb.Client)(nil)

// Service is the favorites synchronizer.
type Service struct {
	client tmdbAPI
}

// NewService creates a favorites service over the given TMDB client.
func NewService(client tmdbAPI) *Service {
	return &Service{client: client}
}

// FetchFavoriteIDs returns every movie id the remote account currently has
// favorited. An empty bearer returns the empty set immediately, without any
// upstream call. Pagination runs until the upstream-reported total_pages is
// reached; any upstream failure collapses the whole result to the empty set
// rather than returning partial data.
func (s *Service) FetchFavoriteIDs(ctx context.Context, bearer string, accountID int64) map[int64]struct{} {
	ids := make(map[int64]struct{})
	if bearer == "" {
		return ids
	}

	page := 1
	for {
		list, err := s.client.AccountFavorites(ctx, bearer, accountID, page)
		if err != nil {
			return map[int64]struct{}{}
		}

		for _, movie := range list.Results {
			if movie.ID > 0 {
				ids[movie.ID] = struct{}{}
			}
		}

		totalPages := list.TotalPages
		if totalPages < 1 {
			totalPages = 1
		}
		if page >= totalPages {
			return ids
		}
		page++
	}
}

// AnnotateFavorites stamps each movie's favorite flag: true iff its id is in
// the set. With an empty set every flag is false, which makes "no credential"
// and "no favorites" indistinguishable on purpose.
func (s *Service) AnnotateFavorites(movies []models.Movie, favoriteIDs map[int64]struct{}) {
	for i := range movies {
		_, ok := favoriteIDs[movies[i].ID]
		movies[i].Favorite = ok
	}
}

// FetchAll returns the account's full remote favorite records across all
// pages. Any upstream failure yields an empty slice, mirroring the id-set
// collapse behavior.
func (s *Service) FetchAll(ctx context.Context, bearer string, accountID int64) []models.Movie {
	var items []models.Movie

	page := 1
	for {
		list, err := s.client.AccountFavorites(ctx, bearer, accountID, page)
		if err != nil {
			return nil
		}

		items = append(items, list.Results...)

		totalPages := list.TotalPages
		if totalPages < 1 {
			totalPages = 1
		}
		if page >= totalPages {
			return items
		}
		page++
	}
}

// FavoritesPage proxies a single page of the account's remote favorites.
func (s *Service) FavoritesPage(ctx context.Context, bearer string, accountID int64, page int) (*models.MovieList, error) {
	if accountID <= 0 {
		return nil, ErrAccountIDRequired
	}
	return s.client.AccountFavorites(ctx, bearer, accountID, page)
}

// Toggle performs the remote favorite write. Favorite defaults to true and
// media type to "movie", matching the upstream defaults. The upstream HTTP
// status accompanies the result for passthrough.
func (s *Service) Toggle(ctx context.Context, bearer string, input models.ToggleFavoriteInput) (*models.ToggleResult, int, error) {
	if input.AccountID <= 0 {
		return nil, 0, ErrAccountIDRequired
	}
	if input.MovieID <= 0 {
		return nil, 0, ErrMovieIDRequired
	}

	favorite := true
	if input.Favorite != nil {
		favorite = *input.Favorite
	}

	return s.client.ToggleFavorite(ctx, bearer, input.AccountID, input.MovieID, favorite, input.MediaType)
}
