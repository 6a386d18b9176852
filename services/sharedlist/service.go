// Package sharedlist is the registry mapping a human-chosen list name to a
// TMDB account, so third parties can view an account's live favorites
// without knowing its numeric id.
package sharedlist

import (
	"errors"
	"strings"

	"cinevault/internal/database"
	"cinevault/models"
)

var (
	ErrAccountIDRequired = errors.New("account id is required")
	ErrListNameRequired  = errors.New("list name is required")
	// ErrNameInUse is returned when the name belongs to another account.
	ErrNameInUse = errors.New("list name already in use")
	// ErrNotFound is returned when no published list matches the name.
	ErrNotFound = errors.New("shared list not found")
)

// store is the persistence surface the registry needs.
type store interface {
	IsNameInUse(name string, excludeAccountID int64) (bool, error)
	LatestNameForAccount(accountID int64) (string, error)
	Upsert(accountID int64, name string) (*models.SharedList, bool, error)
	ResolveAccountByName(name string) (int64, error)
}

var _ store = (*database.SharedListRepository)(nil)

// Service enforces the registry invariants: one active name per account,
// names unique case-insensitively across accounts.
type Service struct {
	store store
}

// NewService creates a shared-list service over the given store.
func NewService(store store) *Service {
	return &Service{store: store}
}

// Publish claims the name for the account, replacing the account's previous
// name in place. Returns the stored record and whether it was newly created.
// The optimistic in-use check excludes the caller's own record so an account
// can republish its current name; the storage-level unique index remains
// authoritative, so a racing claim by another account still surfaces as
// ErrNameInUse.
func (s *Service) Publish(accountID int64, name string) (*models.SharedList, bool, error) {
	if accountID <= 0 {
		return nil, false, ErrAccountIDRequired
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, ErrListNameRequired
	}

	inUse, err := s.store.IsNameInUse(name, accountID)
	if err != nil {
		return nil, false, err
	}
	if inUse {
		return nil, false, ErrNameInUse
	}

	record, created, err := s.store.Upsert(accountID, name)
	if errors.Is(err, database.ErrNameInUse) {
		return nil, false, ErrNameInUse
	}
	if err != nil {
		return nil, false, err
	}
	return record, created, nil
}

// LatestNameForAccount returns the account's published name, or "" when the
// account has never published one.
func (s *Service) LatestNameForAccount(accountID int64) (string, error) {
	name, err := s.store.LatestNameForAccount(accountID)
	if errors.Is(err, database.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

// Resolve returns the account that owns the name, case-insensitively.
func (s *Service) Resolve(name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrListNameRequired
	}

	accountID, err := s.store.ResolveAccountByName(name)
	if errors.Is(err, database.ErrNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return accountID, nil
}
