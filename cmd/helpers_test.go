package cmd

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ademuri/setlist-tools/internal/store"
)

func createTestStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "setlists.db")

	db, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New(%s) error: %v", dbPath, err)
	}
	t.Cleanup(func() { db.Close() })

	return db, dbPath
}

// addTestShows stores shows and marks their years as updated.
func addTestShows(t *testing.T, db *store.Store, shows ...store.ShowImport) {
	t.Helper()
	if err := db.AddShows(shows); err != nil {
		t.Fatalf("AddShows: %v", err)
	}
	for _, show := range shows {
		date, err := time.Parse(dateFormat, show.Date)
		if err != nil {
			t.Fatalf("bad test date %q: %v", show.Date, err)
		}
		if err := db.SetYearUpdated(date.Year(), time.Now()); err != nil {
			t.Fatalf("SetYearUpdated: %v", err)
		}
	}
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func day(ds string) time.Time {
	d, err := time.Parse(dateFormat, ds)
	if err != nil {
		panic(err)
	}
	return d
}
