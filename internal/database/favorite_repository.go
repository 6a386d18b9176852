package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"cinevault/models"
)

// FavoriteRepository persists the local denormalized copy of an account's
// favorited movies.
type FavoriteRepository struct {
	db *sql.DB
}

// NewFavoriteRepository creates a FavoriteRepository on the given connection.
func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Upsert inserts the favorite row or, when the (account, movie) pair already
// exists, refreshes its display fields. CreatedAt is set on insert only.
func (r *FavoriteRepository) Upsert(record *models.FavoritedMovie) error {
	if record.AccountID <= 0 || record.MovieID <= 0 {
		return fmt.Errorf("account id and movie id are required")
	}

	genres, err := json.Marshal(record.GenreIDs)
	if err != nil {
		return fmt.Errorf("encode genre ids: %w", err)
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO favorited_movies (account_id, movie_id, title, overview, poster_path, release_date, genre_ids, vote_average, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (account_id, movie_id) DO UPDATE SET
			title = excluded.title,
			overview = excluded.overview,
			poster_path = excluded.poster_path,
			release_date = excluded.release_date,
			genre_ids = excluded.genre_ids,
			vote_average = excluded.vote_average
	`

	_, err = r.db.Exec(query,
		record.AccountID,
		record.MovieID,
		record.Title,
		record.Overview,
		record.PosterPath,
		record.ReleaseDate,
		string(genres),
		record.VoteAverage,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert favorite: %w", err)
	}
	return nil
}

// Delete removes the favorite row, reporting whether one existed.
func (r *FavoriteRepository) Delete(accountID, movieID int64) (bool, error) {
	result, err := r.db.Exec(
		`DELETE FROM favorited_movies WHERE account_id = ? AND movie_id = ?`,
		accountID, movieID,
	)
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	return rows > 0, nil
}

// IDsByAccount returns the set of movie ids the account has favorited
// locally.
func (r *FavoriteRepository) IDsByAccount(accountID int64) (map[int64]struct{}, error) {
	rows, err := r.db.Query(
		`SELECT movie_id FROM favorited_movies WHERE account_id = ?`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("query favorite ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan favorite id: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorite ids: %w", err)
	}
	return ids, nil
}

// ListByAccount returns the account's local favorite records, oldest first.
func (r *FavoriteRepository) ListByAccount(accountID int64) ([]models.FavoritedMovie, error) {
	query := `
		SELECT account_id, movie_id, title, overview, poster_path, release_date, genre_ids, vote_average, created_at
		FROM favorited_movies
		WHERE account_id = ?
		ORDER BY created_at ASC, movie_id ASC
	`

	rows, err := r.db.Query(query, accountID)
	if err != nil {
		return nil, fmt.Errorf("query favorites: %w", err)
	}
	defer rows.Close()

	var records []models.FavoritedMovie
	for rows.Next() {
		var (
			rec    models.FavoritedMovie
			genres string
		)
		err := rows.Scan(
			&rec.AccountID,
			&rec.MovieID,
			&rec.Title,
			&rec.Overview,
			&rec.PosterPath,
			&rec.ReleaseDate,
			&genres,
			&rec.VoteAverage,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		if err := json.Unmarshal([]byte(genres), &rec.GenreIDs); err != nil {
			rec.GenreIDs = nil
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}
	return records, nil
}
