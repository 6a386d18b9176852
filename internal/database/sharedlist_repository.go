package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"cinevault/models"
)

var (
	// ErrNameInUse is returned when a list name is already claimed by
	// another account. The unique index on favorite_lists.list_name is the
	// authoritative check; a racing claim loses here, not silently.
	ErrNameInUse = errors.New("list name already in use")
	// ErrNotFound is returned when no shared list matches a lookup.
	ErrNotFound = errors.New("shared list not found")
)

// SharedListRepository persists the mapping from a published list name to a
// TMDB account. Each account keeps at most one row; republishing overwrites
// the name in place.
type SharedListRepository struct {
	db *sql.DB
}

// NewSharedListRepository creates a SharedListRepository on the given connection.
func NewSharedListRepository(db *sql.DB) *SharedListRepository {
	return &SharedListRepository{db: db}
}

// IsNameInUse reports whether any account has published the name,
// case-insensitively. Pass excludeAccountID > 0 to ignore that account's own
// record so it can republish its current name.
func (r *SharedListRepository) IsNameInUse(name string, excludeAccountID int64) (bool, error) {
	query := `SELECT COUNT(1) FROM favorite_lists WHERE list_name = ? COLLATE NOCASE`
	args := []any{name}
	if excludeAccountID > 0 {
		query += ` AND account_id != ?`
		args = append(args, excludeAccountID)
	}

	var count int
	if err := r.db.QueryRow(query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("check name in use: %w", err)
	}
	return count > 0, nil
}

// LatestNameForAccount returns the account's most recently published name,
// or ErrNotFound.
func (r *SharedListRepository) LatestNameForAccount(accountID int64) (string, error) {
	var name string
	err := r.db.QueryRow(
		`SELECT list_name FROM favorite_lists WHERE account_id = ? ORDER BY created_at DESC LIMIT 1`,
		accountID,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query latest name: %w", err)
	}
	return name, nil
}

// Upsert publishes the name for the account. An existing record is updated
// in place (wasCreated=false); otherwise a new record is inserted
// (wasCreated=true). A uniqueness violation on the name maps to ErrNameInUse.
func (r *SharedListRepository) Upsert(accountID int64, name string) (*models.SharedList, bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, false, fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	var createdAt time.Time
	err = tx.QueryRow(
		`SELECT created_at FROM favorite_lists WHERE account_id = ?`,
		accountID,
	).Scan(&createdAt)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		createdAt = time.Now().UTC()
		_, err = tx.Exec(
			`INSERT INTO favorite_lists (account_id, list_name, created_at) VALUES (?, ?, ?)`,
			accountID, name, createdAt,
		)
		if err != nil {
			return nil, false, mapConstraintErr(err, "insert shared list")
		}
		if err := tx.Commit(); err != nil {
			return nil, false, fmt.Errorf("commit shared list: %w", err)
		}
		return &models.SharedList{AccountID: accountID, ListName: name, CreatedAt: createdAt}, true, nil

	case err != nil:
		return nil, false, fmt.Errorf("query shared list: %w", err)

	default:
		_, err = tx.Exec(
			`UPDATE favorite_lists SET list_name = ? WHERE account_id = ?`,
			name, accountID,
		)
		if err != nil {
			return nil, false, mapConstraintErr(err, "update shared list")
		}
		if err := tx.Commit(); err != nil {
			return nil, false, fmt.Errorf("commit shared list: %w", err)
		}
		return &models.SharedList{AccountID: accountID, ListName: name, CreatedAt: createdAt}, false, nil
	}
}

// ResolveAccountByName returns the account owning the name,
// case-insensitively, most recent record first. ErrNotFound when absent.
func (r *SharedListRepository) ResolveAccountByName(name string) (int64, error) {
	var accountID int64
	err := r.db.QueryRow(
		`SELECT account_id FROM favorite_lists WHERE list_name = ? COLLATE NOCASE ORDER BY created_at DESC LIMIT 1`,
		name,
	).Scan(&accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("resolve account by name: %w", err)
	}
	return accountID, nil
}

func mapConstraintErr(err error, op string) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return ErrNameInUse
	}
	return fmt.Errorf("%s: %w", op, err)
}
