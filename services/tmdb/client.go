// Package tmdb is the single point of outbound HTTP interaction with the
// TMDB API. Responses are decoded into typed structs at this boundary;
// read-only, cache-friendly endpoints go through a shared TTL response cache.
package tmdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sourcegraph/conc/pool"

	"cinevault/config"
	"cinevault/models"
)

const (
	pathDiscover         = "/discover/movie"
	pathSearch           = "/search/movie"
	pathMovieDetails     = "/movie/%d"
	pathMovieVideos      = "/movie/%d/videos"
	pathMovieProviders   = "/movie/%d/watch/providers"
	pathMovieCredits     = "/movie/%d/credits"
	pathAccountFavorites = "/account/%d/favorite/movies"
	pathFavoriteToggle   = "/account/%d/favorite"

	sortCreatedAtAsc = "created_at.asc"

	posterSize   = "w500"
	backdropSize = "w780"
	profileSize  = "w185"
	logoSize     = "w92"

	youtubeWatchURL = "https://www.youtube.com/watch?v="
)

// Client issues authenticated requests against the TMDB API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	imageBaseURL string
	// fallbackBearer is used when a request carries no credential of its own.
	fallbackBearer string
	language       string
	watchRegion    string
	cache          *responseCache
}

// NewClient builds a client from the TMDB configuration. Caching is enabled
// when cfg.CacheDir is set.
func NewClient(cfg config.TMDB) *Client {
	var cache *responseCache
	if cfg.CacheDir != "" && cfg.CacheTTL > 0 {
		cache = newResponseCache(cfg.CacheDir, cfg.CacheTTL)
	}
	return &Client{
		httpClient:     &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:        cfg.BaseURL,
		imageBaseURL:   cfg.ImageBaseURL,
		fallbackBearer: cfg.BearerToken,
		language:       cfg.Language,
		watchRegion:    cfg.WatchRegion,
		cache:          cache,
	}
}

// Language returns the default language forwarded to TMDB.
func (c *Client) Language() string {
	return c.language
}

// ClearCache drops all cached responses.
func (c *Client) ClearCache() error {
	return c.cache.clear()
}

// DiscoverMovies forwards filter, sort, and pagination parameters to the
// discover endpoint. Responses are cached by (path, sorted parameters); a
// cache hit performs no network call.
func (c *Client) DiscoverMovies(ctx context.Context, bearer string, params url.Values) (*models.MovieList, error) {
	query := cloneValues(params)
	if query.Get("language") == "" {
		query.Set("language", c.language)
	}

	var list models.MovieList
	if err := c.getJSON(ctx, bearer, pathDiscover, query, true, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// SearchMovies searches by title. Adult content is always excluded. Results
// are not cached: query, page, and language make cache value low.
func (c *Client) SearchMovies(ctx context.Context, bearer, query string, page int, language string) (*models.MovieList, error) {
	if language == "" {
		language = c.language
	}
	if page <= 0 {
		page = 1
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("language", language)
	params.Set("include_adult", "false")

	var list models.MovieList
	if err := c.getJSON(ctx, bearer, pathSearch, params, false, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// wire shapes for the detail sub-requests

type videosResponse struct {
	Results []struct {
		Name string `json:"name"`
		Key  string `json:"key"`
		Site string `json:"site"`
		Type string `json:"type"`
	} `json:"results"`
}

type providersResponse struct {
	Results map[string]models.ProviderRegion `json:"results"`
}

type creditsResponse struct {
	Cast []struct {
		Name               string  `json:"name"`
		ProfilePath        *string `json:"profile_path"`
		Character          string  `json:"character"`
		KnownForDepartment string  `json:"known_for_department"`
	} `json:"cast"`
}

// MovieDetails fetches base details plus videos, watch providers, and
// credits, reshaping the result: absolute image URLs, playable YouTube
// videos only, the configured region's providers, and Acting/Directing
// credits. All four requests share the discover caching policy.
func (c *Client) MovieDetails(ctx context.Context, bearer string, movieID int64) (*models.MovieDetails, error) {
	langParams := url.Values{}
	langParams.Set("language", c.language)

	var details models.MovieDetails
	if err := c.getJSON(ctx, bearer, fmt.Sprintf(pathMovieDetails, movieID), langParams, true, &details); err != nil {
		return nil, err
	}

	details.PosterPath = c.imageURL(posterSize, details.PosterPath)
	details.BackdropPath = c.imageURL(backdropSize, details.BackdropPath)

	var (
		videos    videosResponse
		providers providersResponse
		credits   creditsResponse
	)

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		return c.getJSON(ctx, bearer, fmt.Sprintf(pathMovieVideos, movieID), langParams, true, &videos)
	})
	p.Go(func(ctx context.Context) error {
		return c.getJSON(ctx, bearer, fmt.Sprintf(pathMovieProviders, movieID), nil, true, &providers)
	})
	p.Go(func(ctx context.Context) error {
		return c.getJSON(ctx, bearer, fmt.Sprintf(pathMovieCredits, movieID), nil, true, &credits)
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	details.Videos = make([]models.Video, 0, len(videos.Results))
	for _, v := range videos.Results {
		if v.Site != "YouTube" || v.Key == "" {
			continue
		}
		details.Videos = append(details.Videos, models.Video{
			Name: v.Name,
			URL:  youtubeWatchURL + v.Key,
			Site: v.Site,
			Type: v.Type,
		})
	}

	if region, ok := providers.Results[c.watchRegion]; ok {
		c.rewriteProviderLogos(region.Flatrate)
		c.rewriteProviderLogos(region.Rent)
		c.rewriteProviderLogos(region.Buy)
		details.Providers = &region
	}

	details.Credits = make([]models.CastCredit, 0, len(credits.Cast))
	for _, member := range credits.Cast {
		if member.KnownForDepartment != "Acting" && member.KnownForDepartment != "Directing" {
			continue
		}
		credit := models.CastCredit{
			Name:               member.Name,
			Character:          member.Character,
			KnownForDepartment: member.KnownForDepartment,
		}
		if member.ProfilePath != nil && *member.ProfilePath != "" {
			profile := c.imageURL(profileSize, *member.ProfilePath)
			credit.ProfilePath = &profile
		}
		details.Credits = append(details.Credits, credit)
	}

	return &details, nil
}

// AccountFavorites returns one page of the account's remote favorites,
// oldest first. Never cached: the favorite set must not go stale.
func (c *Client) AccountFavorites(ctx context.Context, bearer string, accountID int64, page int) (*models.MovieList, error) {
	if page <= 0 {
		page = 1
	}

	params := url.Values{}
	params.Set("language", c.language)
	params.Set("page", strconv.Itoa(page))
	params.Set("sort_by", sortCreatedAtAsc)

	var list models.MovieList
	if err := c.getJSON(ctx, bearer, fmt.Sprintf(pathAccountFavorites, accountID), params, false, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ToggleFavorite marks or unmarks a favorite on the remote account. The
// upstream HTTP status is returned alongside the payload so callers can pass
// it through (TMDB answers 201 on create, 200 on update/remove).
func (c *Client) ToggleFavorite(ctx context.Context, bearer string, accountID, movieID int64, favorite bool, mediaType string) (*models.ToggleResult, int, error) {
	if mediaType == "" {
		mediaType = "movie"
	}

	payload := map[string]any{
		"media_type": mediaType,
		"media_id":   movieID,
		"favorite":   favorite,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal favorite toggle: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+fmt.Sprintf(pathFavoriteToggle, accountID), bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json;charset=utf-8")
	c.setHeaders(req, bearer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("tmdb request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, resp.StatusCode, &UpstreamError{StatusCode: resp.StatusCode, Body: respBody}
	}

	var result models.ToggleResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return &result, resp.StatusCode, nil
}

// getJSON performs a GET against the API, decoding the payload into v.
// Cacheable requests are served from and written to the response cache.
func (c *Client) getJSON(ctx context.Context, bearer, path string, params url.Values, cacheable bool, v any) error {
	encoded := ""
	if params != nil {
		encoded = params.Encode()
	}

	key := ""
	if cacheable && c.cache != nil {
		key = cacheKey("tmdb", path, encoded)
		if ok, _ := c.cache.get(key, v); ok {
			return nil
		}
	}

	target := c.baseURL + path
	if encoded != "" {
		target += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req, bearer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return &UpstreamError{StatusCode: resp.StatusCode, Body: body}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if key != "" {
		_ = c.cache.set(key, v)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, bearer string) {
	req.Header.Set("Accept", "application/json")
	if bearer == "" {
		bearer = c.fallbackBearer
	}
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
}

func (c *Client) rewriteProviderLogos(providers []models.WatchProvider) {
	for i := range providers {
		providers[i].LogoPath = c.imageURL(logoSize, providers[i].LogoPath)
	}
}

func (c *Client) imageURL(size, path string) string {
	if path == "" {
		return ""
	}
	return c.imageBaseURL + size + path
}

func cloneValues(params url.Values) url.Values {
	out := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			out.Add(k, v)
		}
	}
	return out
}
