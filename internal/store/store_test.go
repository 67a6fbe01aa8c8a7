package store

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ademuri/setlist-tools/internal/insights"
)

func createTestDb(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "setlists.db")

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("New(%s) error: %v", dbPath, err)
	}

	return store
}

func TestNewIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "setlists.db")
	for i := 0; i < 2; i++ {
		s, err := New(dbPath)
		if err != nil {
			t.Fatalf("New(%s) run %d error: %v", dbPath, i, err)
		}
		s.Close()
	}
}

func TestAddShows(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	shows := []ShowImport{
		{Date: "2023-07-14", Venue: "Madison Square Garden", Location: "New York, NY", SetlistData: "Set 1: Sand"},
		{Date: "2023-07-15", Venue: "Madison Square Garden", Location: "New York, NY"},
		{Date: "2022-12-31", Venue: "Madison Square Garden", Location: "New York, NY", SetlistData: "Set 1: Free"},
	}
	if err := s.AddShows(shows); err != nil {
		t.Fatalf("AddShows failed: %v", err)
	}

	// Re-importing without setlist text keeps the stored setlist.
	if err := s.AddShows([]ShowImport{{Date: "2023-07-14", Venue: "Madison Square Garden", Location: "NYC"}}); err != nil {
		t.Fatalf("AddShows (repeat) failed: %v", err)
	}

	got, err := s.GetShowsInRange("2023-01-01", "2024-01-01")
	if err != nil {
		t.Fatalf("GetShowsInRange: %v", err)
	}
	want := []Show{
		{Date: "2023-07-14", Venue: "Madison Square Garden", Location: "NYC", SetlistData: "Set 1: Sand"},
		{Date: "2023-07-15", Venue: "Madison Square Garden", Location: "New York, NY"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetShowsInRange() = %+v, want %+v", got, want)
	}

	onDate, err := s.GetShowsOnDate("2022-12-31")
	if err != nil {
		t.Fatalf("GetShowsOnDate: %v", err)
	}
	if len(onDate) != 1 || onDate[0].SetlistData != "Set 1: Free" {
		t.Errorf("GetShowsOnDate() = %+v", onDate)
	}

	latest, err := s.GetLatestShowDate()
	if err != nil {
		t.Fatalf("GetLatestShowDate: %v", err)
	}
	if latest != "2023-07-15" {
		t.Errorf("GetLatestShowDate() = %q, want 2023-07-15", latest)
	}
}

func TestGetLatestShowDateEmpty(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	latest, err := s.GetLatestShowDate()
	if err != nil {
		t.Fatalf("GetLatestShowDate: %v", err)
	}
	if latest != "" {
		t.Errorf("GetLatestShowDate() = %q, want empty", latest)
	}
}

func TestReplaceSongs(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	if err := s.ReplaceSongs([]SongImport{{Name: "Old Song", TimesPlayed: 1}}); err != nil {
		t.Fatalf("ReplaceSongs: %v", err)
	}
	songs := []SongImport{
		{Name: "Tweezer", TimesPlayed: 450, LastPlayed: "2023-08-01", Debut: "1990-02-03"},
		{Name: "Fluffhead", TimesPlayed: 200, Debut: "1984-10-23"},
	}
	if err := s.ReplaceSongs(songs); err != nil {
		t.Fatalf("ReplaceSongs: %v", err)
	}

	got, err := s.GetSongs()
	if err != nil {
		t.Fatalf("GetSongs: %v", err)
	}
	if !reflect.DeepEqual(got, songs) {
		t.Errorf("GetSongs() = %+v, want %+v", got, songs)
	}
}

func TestYearUpdated(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	exists, err := s.Exists()
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Errorf("Exists() = true for a new database")
	}

	got, err := s.GetYearUpdated(2023)
	if err != nil {
		t.Fatalf("GetYearUpdated: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("GetYearUpdated() = %v, want zero", got)
	}

	updated := time.Date(2023, 7, 1, 12, 0, 0, 0, time.UTC)
	if err := s.SetYearUpdated(2023, updated); err != nil {
		t.Fatalf("SetYearUpdated: %v", err)
	}
	got, err = s.GetYearUpdated(2023)
	if err != nil {
		t.Fatalf("GetYearUpdated: %v", err)
	}
	if !got.Equal(updated) {
		t.Errorf("GetYearUpdated() = %v, want %v", got, updated)
	}

	exists, err = s.Exists()
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Errorf("Exists() = false after an update")
	}
}

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func TestInsightCache(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	clock := &fakeClock{now: time.Date(2023, 7, 1, 12, 0, 0, 0, time.UTC)}
	cache := s.InsightCache(24*time.Hour, clock)

	if _, ok, err := cache.Get("recent"); err != nil || ok {
		t.Fatalf("Get(empty cache) = %v, %v", ok, err)
	}

	values := []insights.SongInsight{
		{Song: "Sand", Probability: 50, TimesPlayed: 5, LastPlayed: "2023-06-30", IsFrequentOpener: true},
	}
	if err := cache.Put("recent", values); err != nil {
		t.Fatalf("Put: %v", err)
	}

	clock.now = clock.now.Add(23 * time.Hour)
	got, ok, err := cache.Get("recent")
	if err != nil || !ok {
		t.Fatalf("Get(fresh) = %v, %v", ok, err)
	}
	if !reflect.DeepEqual(got, values) {
		t.Errorf("Get() = %+v, want %+v", got, values)
	}

	clock.now = clock.now.Add(time.Hour)
	if _, ok, err := cache.Get("recent"); err != nil || ok {
		t.Errorf("Get(expired) = %v, %v, want miss", ok, err)
	}

	disabled := s.InsightCache(0, clock)
	if _, ok, _ := disabled.Get("recent"); ok {
		t.Errorf("Get() with ttl 0 should miss")
	}
}

func TestClearInsightCache(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	clock := &fakeClock{now: time.Date(2023, 7, 1, 12, 0, 0, 0, time.UTC)}
	cache := s.InsightCache(24*time.Hour, clock)
	if err := cache.Put("recent", []insights.SongInsight{{Song: "Sand", Probability: 50}}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if err := s.ClearInsightCache(); err != nil {
		t.Fatalf("ClearInsightCache: %v", err)
	}
	if _, ok, err := cache.Get("recent"); err != nil || ok {
		t.Errorf("Get() after clear = %v, %v, want miss", ok, err)
	}
}
