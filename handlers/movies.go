package handlers

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"cinevault/internal/auth"
	"cinevault/internal/database"
	"cinevault/models"
	"cinevault/services/favorites"
	"cinevault/services/tmdb"
)

// discoverParams is the whitelist of filter/sort/pagination parameters
// forwarded to the discover endpoint.
var discoverParams = []string{
	"language",
	"page",
	"sort_by",
	"include_adult",
	"include_video",
	"with_genres",
	"without_genres",
	"with_watch_providers",
	"watch_region",
	"primary_release_year",
	"primary_release_date.gte",
	"primary_release_date.lte",
	"vote_average.gte",
	"vote_average.lte",
	"vote_count.gte",
	"year",
}

type moviesService interface {
	DiscoverMovies(ctx context.Context, bearer string, params url.Values) (*models.MovieList, error)
	SearchMovies(ctx context.Context, bearer, query string, page int, language string) (*models.MovieList, error)
	MovieDetails(ctx context.Context, bearer string, movieID int64) (*models.MovieDetails, error)
}

var _ moviesService = (*tmdb.Client)(nil)

type favoriteAnnotator interface {
	FetchFavoriteIDs(ctx context.Context, bearer string, accountID int64) map[int64]struct{}
	AnnotateFavorites(movies []models.Movie, favoriteIDs map[int64]struct{})
}

var _ favoriteAnnotator = (*favorites.Service)(nil)

// localFavoriteIDs reads the locally persisted favorite set, used to
// annotate discover results when the request carries no credential.
type localFavoriteIDs interface {
	IDsByAccount(accountID int64) (map[int64]struct{}, error)
}

var _ localFavoriteIDs = (*database.FavoriteRepository)(nil)

type MoviesHandler struct {
	Service        moviesService
	Favorites      favoriteAnnotator
	LocalFavorites localFavoriteIDs
}

func NewMoviesHandler(service moviesService, favorites favoriteAnnotator, local localFavoriteIDs) *MoviesHandler {
	return &MoviesHandler{Service: service, Favorites: favorites, LocalFavorites: local}
}

// Discover proxies the discover endpoint and, when account_id is given,
// stamps each result's favorite flag: from the live remote set when the
// request is authenticated, from the local favorites table otherwise.
func (h *MoviesHandler) Discover(w http.ResponseWriter, r *http.Request) {
	params := url.Values{}
	for _, key := range discoverParams {
		if v := r.URL.Query().Get(key); v != "" {
			params.Set(key, v)
		}
	}

	bearer := auth.Bearer(r)
	list, err := h.Service.DiscoverMovies(r.Context(), bearer, params)
	if err != nil {
		writeUpstream(w, err)
		return
	}

	accountID := parseAccountID(r.URL.Query().Get("account_id"))
	h.annotate(r.Context(), bearer, accountID, list.Results)

	writeJSON(w, http.StatusOK, list)
}

// Search proxies title search, flagging favorites from the live remote set
// when account_id is given.
func (h *MoviesHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, msgQueryRequired)
		return
	}

	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			page = parsed
		}
	}
	language := strings.TrimSpace(r.URL.Query().Get("language"))

	bearer := auth.Bearer(r)
	list, err := h.Service.SearchMovies(r.Context(), bearer, query, page, language)
	if err != nil {
		writeUpstream(w, err)
		return
	}

	if accountID := parseAccountID(r.URL.Query().Get("account_id")); accountID > 0 && h.Favorites != nil {
		ids := h.Favorites.FetchFavoriteIDs(r.Context(), bearer, accountID)
		h.Favorites.AnnotateFavorites(list.Results, ids)
	}

	writeJSON(w, http.StatusOK, list)
}

// Details returns the enriched detail payload for one movie.
func (h *MoviesHandler) Details(w http.ResponseWriter, r *http.Request) {
	movieID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || movieID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid movie id")
		return
	}

	details, err := h.Service.MovieDetails(r.Context(), auth.Bearer(r), movieID)
	if err != nil {
		writeUpstream(w, err)
		return
	}

	writeJSON(w, http.StatusOK, details)
}

// annotate stamps favorite flags onto the movie list. With a credential the
// live remote set wins; without one the locally persisted set is used so
// anonymous discover still reflects favorites toggled through this service.
func (h *MoviesHandler) annotate(ctx context.Context, bearer string, accountID int64, movies []models.Movie) {
	if accountID <= 0 || h.Favorites == nil {
		return
	}

	var ids map[int64]struct{}
	if bearer != "" {
		ids = h.Favorites.FetchFavoriteIDs(ctx, bearer, accountID)
	} else if h.LocalFavorites != nil {
		var err error
		ids, err = h.LocalFavorites.IDsByAccount(accountID)
		if err != nil {
			log.Printf("[movies] local favorite lookup failed account=%d err=%v", accountID, err)
			ids = nil
		}
	}

	h.Favorites.AnnotateFavorites(movies, ids)
}

func parseAccountID(raw string) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
