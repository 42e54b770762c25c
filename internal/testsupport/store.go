package testsupport

import (
	"context"
	"testing"

	"distill/internal/config"
	"distill/internal/content"
	"distill/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SaveSource persists a source for tests using the provided store and
// returns its content ID.
func SaveSource(t testing.TB, st *store.Store, src content.Source) string {
	t.Helper()

	contentID, err := st.SaveSource(context.Background(), src)
	if err != nil {
		t.Fatalf("store.SaveSource: %v", err)
	}
	return contentID
}
