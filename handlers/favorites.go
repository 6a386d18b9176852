package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"cinevault/internal/auth"
	"cinevault/internal/database"
	"cinevault/models"
	"cinevault/services/favorites"
	"cinevault/services/sharedlist"
)

type favoritesService interface {
	FavoritesPage(ctx context.Context, bearer string, accountID int64, page int) (*models.MovieList, error)
	Toggle(ctx context.Context, bearer string, input models.ToggleFavoriteInput) (*models.ToggleResult, int, error)
	FetchAll(ctx context.Context, bearer string, accountID int64) []models.Movie
}

var _ favoritesService = (*favorites.Service)(nil)

type sharedListService interface {
	Publish(accountID int64, name string) (*models.SharedList, bool, error)
	LatestNameForAccount(accountID int64) (string, error)
	Resolve(name string) (int64, error)
}

var _ sharedListService = (*sharedlist.Service)(nil)

// favoriteStore mirrors remote toggles into the local favorites table.
type favoriteStore interface {
	Upsert(record *models.FavoritedMovie) error
	Delete(accountID, movieID int64) (bool, error)
}

var _ favoriteStore = (*database.FavoriteRepository)(nil)

type FavoritesHandler struct {
	Service     favoritesService
	SharedLists sharedListService
	Store       favoriteStore
}

func NewFavoritesHandler(service favoritesService, sharedLists sharedListService, store favoriteStore) *FavoritesHandler {
	return &FavoritesHandler{Service: service, SharedLists: sharedLists, Store: store}
}

// List proxies one page of the account's remote favorites and appends the
// account's published list name when one exists.
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID := parseAccountID(r.URL.Query().Get("account_id"))
	if accountID <= 0 {
		writeError(w, http.StatusBadRequest, msgAccountIDRequired)
		return
	}

	bearer := auth.Bearer(r)
	if bearer == "" {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			page = parsed
		}
	}

	list, err := h.Service.FavoritesPage(r.Context(), bearer, accountID, page)
	if err != nil {
		writeUpstream(w, err)
		return
	}

	if h.SharedLists != nil {
		if name, err := h.SharedLists.LatestNameForAccount(accountID); err == nil && name != "" {
			list.ListName = name
		}
	}

	writeJSON(w, http.StatusOK, list)
}

// Toggle performs the remote favorite write and mirrors the outcome into the
// local favorites table. The upstream payload and status pass through.
func (h *FavoritesHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var input models.ToggleFavoriteInput
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if input.AccountID <= 0 || input.MovieID <= 0 {
		writeError(w, http.StatusBadRequest, msgAccountIDRequired)
		return
	}

	bearer := auth.Bearer(r)
	if bearer == "" {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	result, status, err := h.Service.Toggle(r.Context(), bearer, input)
	if err != nil {
		switch {
		case errors.Is(err, favorites.ErrAccountIDRequired), errors.Is(err, favorites.ErrMovieIDRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeUpstream(w, err)
		}
		return
	}

	h.mirrorToggle(input)

	if status < 200 || status > 299 {
		status = http.StatusOK
	}
	writeJSON(w, status, result)
}

// mirrorToggle keeps the local denormalized row in step with the remote
// write. Failures are logged, not surfaced: TMDB already accepted the toggle.
func (h *FavoritesHandler) mirrorToggle(input models.ToggleFavoriteInput) {
	if h.Store == nil {
		return
	}

	favorite := true
	if input.Favorite != nil {
		favorite = *input.Favorite
	}

	if !favorite {
		if _, err := h.Store.Delete(input.AccountID, input.MovieID); err != nil {
			log.Printf("[favorites] local delete failed account=%d movie=%d err=%v", input.AccountID, input.MovieID, err)
		}
		return
	}

	record := &models.FavoritedMovie{
		AccountID:   input.AccountID,
		MovieID:     input.MovieID,
		Title:       input.Title,
		Overview:    input.Overview,
		PosterPath:  input.PosterPath,
		ReleaseDate: input.ReleaseDate,
		GenreIDs:    input.GenreIDs,
		VoteAverage: input.VoteAverage,
	}
	if err := h.Store.Upsert(record); err != nil {
		log.Printf("[favorites] local upsert failed account=%d movie=%d err=%v", input.AccountID, input.MovieID, err)
	}
}

type shareRequest struct {
	AccountID int64  `json:"account_id"`
	ListName  string `json:"list_name"`
}

// Share publishes (or republishes) the account's shareable list name.
func (h *FavoritesHandler) Share(w http.ResponseWriter, r *http.Request) {
	var body shareRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	body.ListName = strings.TrimSpace(body.ListName)
	if body.AccountID <= 0 || body.ListName == "" {
		writeError(w, http.StatusBadRequest, msgAccountAndListRequired)
		return
	}

	record, created, err := h.SharedLists.Publish(body.AccountID, body.ListName)
	if err != nil {
		switch {
		case errors.Is(err, sharedlist.ErrNameInUse):
			writeError(w, http.StatusConflict, msgListNameInUse)
		case errors.Is(err, sharedlist.ErrAccountIDRequired), errors.Is(err, sharedlist.ErrListNameRequired):
			writeError(w, http.StatusBadRequest, msgAccountAndListRequired)
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, record)
}

// SharedByName resolves a published list name and returns that account's
// live favorites, mapped to the local record shape.
func (h *FavoritesHandler) SharedByName(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("list_name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, msgListNameRequired)
		return
	}

	accountID, err := h.SharedLists.Resolve(name)
	if err != nil {
		switch {
		case errors.Is(err, sharedlist.ErrNotFound):
			writeError(w, http.StatusNotFound, msgSharedListNotFound)
		case errors.Is(err, sharedlist.ErrListNameRequired):
			writeError(w, http.StatusBadRequest, msgListNameRequired)
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	bearer := auth.Bearer(r)
	if bearer == "" {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	items := h.Service.FetchAll(r.Context(), bearer, accountID)
	mapped := make([]models.FavoritedMovie, 0, len(items))
	for _, item := range items {
		if item.ID <= 0 {
			continue
		}
		mapped = append(mapped, models.FavoritedMovie{
			AccountID:   accountID,
			MovieID:     item.ID,
			Title:       item.Title,
			Overview:    item.Overview,
			PosterPath:  item.PosterPath,
			ReleaseDate: item.ReleaseDate,
			GenreIDs:    item.GenreIDs,
			VoteAverage: item.VoteAverage,
		})
	}

	writeJSON(w, http.StatusOK, mapped)
}
