package sharedlist

import (
	"errors"
	"strings"
	"testing"
	"time"

	"cinevault/internal/database"
	"cinevault/models"
)

// fakeStore keeps the registry in memory with the same case-insensitive
// semantics the real repository enforces.
type fakeStore struct {
	byAccount map[int64]string
	err       error
	upsertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{byAccount: make(map[int64]string)}
}

func (f *fakeStore) IsNameInUse(name string, excludeAccountID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for accountID, existing := range f.byAccount {
		if accountID == excludeAccountID {
			continue
		}
		if strings.EqualFold(existing, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) LatestNameForAccount(accountID int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	name, ok := f.byAccount[accountID]
	if !ok {
		return "", database.ErrNotFound
	}
	return name, nil
}

func (f *fakeStore) Upsert(accountID int64, name string) (*models.SharedList, bool, error) {
	if f.upsertErr != nil {
		return nil, false, f.upsertErr
	}
	_, existed := f.byAccount[accountID]
	f.byAccount[accountID] = name
	return &models.SharedList{AccountID: accountID, ListName: name, CreatedAt: time.Now()}, !existed, nil
}

func (f *fakeStore) ResolveAccountByName(name string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	for accountID, existing := range f.byAccount {
		if strings.EqualFold(existing, name) {
			return accountID, nil
		}
	}
	return 0, database.ErrNotFound
}

func TestPublish_Validation(t *testing.T) {
	svc := NewService(newFakeStore())

	if _, _, err := svc.Publish(0, "movies"); !errors.Is(err, ErrAccountIDRequired) {
		t.Errorf("expected ErrAccountIDRequired, got %v", err)
	}
	if _, _, err := svc.Publish(1, "   "); !errors.Is(err, ErrListNameRequired) {
		t.Errorf("expected ErrListNameRequired for blank name, got %v", err)
	}
}

func TestPublish_CreatesNewRecord(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	record, created, err := svc.Publish(42, "  halloween picks  ")
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if !created {
		t.Error("expected a newly created record")
	}
	if record.ListName != "halloween picks" {
		t.Errorf("expected trimmed name, got %q", record.ListName)
	}
	if record.AccountID != 42 {
		t.Errorf("expected account 42, got %d", record.AccountID)
	}
}

func TestPublish_ReplacesOwnNameInPlace(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	if _, _, err := svc.Publish(42, "october"); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	record, created, err := svc.Publish(42, "november")
	if err != nil {
		t.Fatalf("second publish: %v", err)
	}
	if created {
		t.Error("republish must update in place, not create")
	}
	if record.ListName != "november" {
		t.Errorf("expected november, got %q", record.ListName)
	}
	if _, err := svc.Resolve("october"); !errors.Is(err, ErrNotFound) {
		t.Errorf("old name must no longer resolve, got %v", err)
	}
}

func TestPublish_RepublishingOwnCurrentNameSucceeds(t *testing.T) {
	svc := NewService(newFakeStore())

	if _, _, err := svc.Publish(42, "october"); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	if _, _, err := svc.Publish(42, "October"); err != nil {
		t.Errorf("republishing own name (case change) must succeed, got %v", err)
	}
}

func TestPublish_ConflictWithOtherAccount(t *testing.T) {
	svc := NewService(newFakeStore())

	if _, _, err := svc.Publish(1, "october"); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	if _, _, err := svc.Publish(2, "October"); !errors.Is(err, ErrNameInUse) {
		t.Errorf("expected ErrNameInUse for other account's name, got %v", err)
	}
}

func TestPublish_StorageConflictMapsToErrNameInUse(t *testing.T) {
	store := newFakeStore()
	store.upsertErr = database.ErrNameInUse
	svc := NewService(store)

	if _, _, err := svc.Publish(1, "october"); !errors.Is(err, ErrNameInUse) {
		t.Errorf("expected ErrNameInUse from storage conflict, got %v", err)
	}
}

func TestLatestNameForAccount(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	name, err := svc.LatestNameForAccount(42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "" {
		t.Errorf("expected empty name for unpublished account, got %q", name)
	}

	if _, _, err := svc.Publish(42, "october"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	name, err = svc.LatestNameForAccount(42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "october" {
		t.Errorf("expected october, got %q", name)
	}
}

func TestResolve(t *testing.T) {
	svc := NewService(newFakeStore())

	if _, err := svc.Resolve(""); !errors.Is(err, ErrListNameRequired) {
		t.Errorf("expected ErrListNameRequired, got %v", err)
	}
	if _, err := svc.Resolve("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, _, err := svc.Publish(7, "My List"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	accountID, err := svc.Resolve("my list")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if accountID != 7 {
		t.Errorf("expected account 7, got %d", accountID)
	}
}

func TestPublish_StoreErrorPropagates(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("disk on fire")
	svc := NewService(store)

	if _, _, err := svc.Publish(1, "october"); err == nil || errors.Is(err, ErrNameInUse) {
		t.Errorf("expected raw store error, got %v", err)
	}
}
