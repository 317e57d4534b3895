// Package testutil provides test helpers for working against a real industry catalog.
package testutil

import (
	"context"
	"testing"

	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/model"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/service"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/storage"
)

// TestDB is a migrated in-memory catalog seeded for one test.
type TestDB struct {
	Storage    service.Storage
	t          *testing.T
	Industries []model.Industry
}

// SetupTestDB creates a new in-memory catalog seeded with industries.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t, testutil.BasicIndustries()...)
func SetupTestDB(t *testing.T, industries ...model.Industry) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	seeded := make([]model.Industry, 0, len(industries))
	for _, ind := range industries {
		ind := ind
		if err := store.CreateIndustry(ctx, &ind); err != nil {
			t.Fatalf("failed to seed industry %q: %v", ind.Slug, err)
		}
		seeded = append(seeded, ind)
	}

	return &TestDB{
		Storage:    store,
		Industries: seeded,
		t:          t,
	}
}

// MustGetIndustry returns the seeded industry with slug or fails the test.
func (db *TestDB) MustGetIndustry(slug string) model.Industry {
	db.t.Helper()
	for _, ind := range db.Industries {
		if ind.Slug == slug {
			return ind
		}
	}
	db.t.Fatalf("industry %q was not seeded", slug)
	return model.Industry{}
}

// Deactivate marks slug inactive in the catalog.
func (db *TestDB) Deactivate(slug string) {
	db.t.Helper()
	if err := db.Storage.SetIndustryActive(context.Background(), slug, false); err != nil {
		db.t.Fatalf("failed to deactivate %q: %v", slug, err)
	}
}
