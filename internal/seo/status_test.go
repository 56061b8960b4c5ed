package seo_test

import (
	"context"
	"testing"
	"time"

	"idx-go/internal/cache"
	"idx-go/internal/database"
	"idx-go/internal/seo"
	"idx-go/internal/testutil"
)

func seedTerms(t *testing.T, db *database.SQLiteDatabase, taxonomy string, n int) []int64 {
	t.Helper()
	ids := make([]int64, n)
	for i := range ids {
		id, err := db.InsertTerm(context.Background(), taxonomy, taxonomy, taxonomy)
		if err != nil {
			t.Fatalf("InsertTerm() error = %v", err)
		}
		ids[i] = id
	}
	return ids
}

func TestIndexingStatus_UnindexedTermCount(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDatabase(t)
	clock := testutil.FixedClock()
	transients := cache.NewMemoryStore(clock)
	status := seo.NewIndexingStatus(db, transients, seo.NewNopLogger())

	testutil.RegisterTaxonomies(t, db, true, "category")
	testutil.RegisterTaxonomies(t, db, false, "nav_menu")
	ids := seedTerms(t, db, "category", 3)
	seedTerms(t, db, "nav_menu", 2)
	saveTermIndexable(t, db, ids[0], "category")

	n, err := status.UnindexedTermCount(ctx)
	if err != nil {
		t.Fatalf("UnindexedTermCount() error = %v", err)
	}
	if n != 2 {
		t.Errorf("UnindexedTermCount() = %d, want 2", n)
	}

	cached, ok, err := transients.GetTransient(ctx, seo.TransientUnindexedTermCount)
	if err != nil {
		t.Fatalf("GetTransient() error = %v", err)
	}
	if !ok || cached != "2" {
		t.Errorf("cached count = %q (present %v), want 2", cached, ok)
	}

	// Served from the cache until it expires.
	seedTerms(t, db, "category", 1)
	if n, _ := status.UnindexedTermCount(ctx); n != 2 {
		t.Errorf("cached UnindexedTermCount() = %d, want 2", n)
	}

	clock.Advance(seo.UnindexedCountTTL)
	if n, _ := status.UnindexedTermCount(ctx); n != 3 {
		t.Errorf("UnindexedTermCount() after expiry = %d, want 3", n)
	}
}

func TestIndexingStatus_UnindexedTermCountLimited(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDatabase(t)
	clock := testutil.FixedClock()
	status := seo.NewIndexingStatus(db, cache.NewMemoryStore(clock), seo.NewNopLogger())

	testutil.RegisterTaxonomies(t, db, true, "category")
	seedTerms(t, db, "category", 10)

	n, err := status.UnindexedTermCountLimited(ctx, 4)
	if err != nil {
		t.Fatalf("UnindexedTermCountLimited() error = %v", err)
	}
	if n != 5 {
		t.Errorf("UnindexedTermCountLimited(4) = %d, want 5", n)
	}

	clock.Advance(seo.UnindexedLimitedCountTTL)
	n, err = status.UnindexedTermCountLimited(ctx, 20)
	if err != nil {
		t.Fatalf("UnindexedTermCountLimited() error = %v", err)
	}
	if n != 10 {
		t.Errorf("UnindexedTermCountLimited(20) = %d, want 10", n)
	}
}

func TestIndexingStatus_MalformedTransient(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDatabase(t)
	transients := cache.NewMemoryStore(testutil.FixedClock())
	logger := testutil.NewRecordingLogger()
	status := seo.NewIndexingStatus(db, transients, logger)

	testutil.RegisterTaxonomies(t, db, true, "category")
	seedTerms(t, db, "category", 1)
	if err := transients.SetTransient(ctx, seo.TransientUnindexedTermCount, "lots", time.Hour); err != nil {
		t.Fatalf("SetTransient() error = %v", err)
	}

	n, err := status.UnindexedTermCount(ctx)
	if err != nil {
		t.Fatalf("UnindexedTermCount() error = %v", err)
	}
	if n != 1 {
		t.Errorf("UnindexedTermCount() = %d, want 1", n)
	}
	if !logger.Has("WARN", "ignoring malformed transient") {
		t.Errorf("expected a warning, got %v", logger.Entries())
	}
}

func TestIndexingStatus_InvalidatedByWatcher(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDatabase(t)
	clock := testutil.FixedClock()
	transients := cache.NewMemoryStore(clock)
	status := seo.NewIndexingStatus(db, transients, seo.NewNopLogger())
	watcher := seo.NewTaxonomyVisibilityWatcher(db, transients, seo.NewNopLogger(), clock)

	testutil.RegisterTaxonomies(t, db, true, "category")
	testutil.RegisterTaxonomies(t, db, false, "genre")
	seedTerms(t, db, "category", 1)
	seedTerms(t, db, "genre", 2)

	if _, err := watcher.Check(ctx, navigational); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if n, _ := status.UnindexedTermCount(ctx); n != 1 {
		t.Fatalf("UnindexedTermCount() = %d, want 1", n)
	}

	testutil.RegisterTaxonomies(t, db, true, "genre")
	if _, err := watcher.Check(ctx, navigational); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if n, _ := status.UnindexedTermCount(ctx); n != 3 {
		t.Errorf("UnindexedTermCount() after genre went public = %d, want 3", n)
	}
}
