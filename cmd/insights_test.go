package cmd

import (
	"reflect"
	"testing"
	"time"

	"github.com/ademuri/setlist-tools/internal/insights"
	"github.com/ademuri/setlist-tools/internal/store"
)

func addWindowShows(t *testing.T, db *store.Store) {
	t.Helper()
	addTestShows(t, db,
		store.ShowImport{Date: "2023-10-01", Venue: "A", SetlistData: "Set 1: Fluffhead"},
		store.ShowImport{Date: "2023-11-20", Venue: "B", SetlistData: "Set 1: Wilson, Sand Set 2: Ghost Encore: Slave"},
		store.ShowImport{Date: "2023-12-31", Venue: "C", SetlistData: "Set 1: Wilson, Free Set 2: Sand Set 3: Ghost Encore: Tweezer Reprise"},
		store.ShowImport{Date: "2024-01-05", Venue: "D"},
		store.ShowImport{Date: "2024-02-10", Venue: "E", SetlistData: "Set 1: Wilson, Sand"},
		store.ShowImport{Date: "2024-02-15", Venue: "F", SetlistData: "Set 1: Fluffhead"},
	)
}

func songNames(ranked []insights.SongInsight) []string {
	names := make([]string, 0, len(ranked))
	for _, in := range ranked {
		names = append(names, in.Song)
	}
	return names
}

func TestComputeInsightsRecent(t *testing.T) {
	db, _ := createTestStore(t)
	addWindowShows(t, db)

	config := InsightsConfig{
		Mode:       modeRecent,
		Target:     day("2024-02-15"),
		Months:     3,
		Thresholds: thresholdsFor(modeRecent, -1, -1),
	}
	result, err := computeInsights(db, config, &fixedClock{now: time.Now()})
	if err != nil {
		t.Fatalf("computeInsights: %v", err)
	}

	if result.Shows != 3 {
		t.Errorf("Shows = %d, want 3", result.Shows)
	}
	if result.Period != "2023-11-15 to 2024-02-14" {
		t.Errorf("Period = %q", result.Period)
	}

	wantNames := []string{"Wilson", "Sand", "Ghost", "Slave", "Free", "Tweezer Reprise"}
	if got := songNames(result.Ranked); !reflect.DeepEqual(got, wantNames) {
		t.Fatalf("songs = %v, want %v", got, wantNames)
	}

	want := map[string]insights.SongInsight{
		"Wilson": {Song: "Wilson", Probability: 100, TimesPlayed: 3, LastPlayed: "2024-02-10", IsFrequentOpener: true},
		"Sand":   {Song: "Sand", Probability: 100, TimesPlayed: 3, LastPlayed: "2024-02-10", IsFrequentCloser: true},
		"Ghost":  {Song: "Ghost", Probability: 67, TimesPlayed: 2, LastPlayed: "2023-12-31", IsFrequentCloser: true},
		"Slave":  {Song: "Slave", Probability: 33, TimesPlayed: 1, LastPlayed: "2023-11-20"},
	}
	for _, in := range result.Ranked {
		if w, ok := want[in.Song]; ok && in != w {
			t.Errorf("%s = %+v, want %+v", in.Song, in, w)
		}
	}
}

func TestComputeInsightsTour(t *testing.T) {
	db, _ := createTestStore(t)
	addWindowShows(t, db)

	config := InsightsConfig{
		Mode:       modeTour,
		Target:     day("2024-07-20"),
		Thresholds: thresholdsFor(modeTour, -1, -1),
	}
	result, err := computeInsights(db, config, &fixedClock{now: time.Now()})
	if err != nil {
		t.Fatalf("computeInsights: %v", err)
	}

	if result.Shows != 3 {
		t.Errorf("Shows = %d, want 3", result.Shows)
	}
	if result.Thresholds != (insights.Thresholds{Opener: 5, Closer: 5}) {
		t.Errorf("Thresholds = %+v", result.Thresholds)
	}
	for _, in := range result.Ranked {
		if in.IsFrequentOpener || in.IsFrequentCloser {
			t.Errorf("%s should not be frequent with thresholds of 5: %+v", in.Song, in)
		}
	}
	if result.Ranked[0].Song != "Wilson" || result.Ranked[0].Probability != 67 {
		t.Errorf("top song = %+v, want Wilson at 67", result.Ranked[0])
	}
}

func TestComputeInsightsCatalog(t *testing.T) {
	db, _ := createTestStore(t)
	err := db.ReplaceSongs([]store.SongImport{
		{Name: "Sand", TimesPlayed: 350, Debut: "1999-06-22"},
		{Name: "Wilson", TimesPlayed: 700, LastPlayed: "2024-02-10", Debut: "1986-02-03"},
	})
	if err != nil {
		t.Fatalf("ReplaceSongs: %v", err)
	}

	result, err := computeInsights(db, InsightsConfig{Mode: modeCatalog, EstimatedTotalShows: 3500}, &fixedClock{now: time.Now()})
	if err != nil {
		t.Fatalf("computeInsights: %v", err)
	}
	want := []insights.SongInsight{
		{Song: "Wilson", Probability: 20, TimesPlayed: 700, LastPlayed: "2024-02-10"},
		{Song: "Sand", Probability: 10, TimesPlayed: 350, LastPlayed: "1999-06-22"},
	}
	if !reflect.DeepEqual(result.Ranked, want) {
		t.Errorf("Ranked = %+v, want %+v", result.Ranked, want)
	}
}

func TestComputeInsightsCache(t *testing.T) {
	db, _ := createTestStore(t)
	addWindowShows(t, db)

	clock := &fixedClock{now: time.Date(2024, 2, 14, 12, 0, 0, 0, time.UTC)}
	config := InsightsConfig{
		Mode:       modeRecent,
		Target:     day("2024-02-15"),
		Months:     3,
		Thresholds: thresholdsFor(modeRecent, -1, -1),
		CacheTTL:   24 * time.Hour,
	}
	first, err := computeInsights(db, config, clock)
	if err != nil {
		t.Fatalf("computeInsights: %v", err)
	}
	if first.Cached {
		t.Errorf("first computation should not be cached")
	}

	addTestShows(t, db, store.ShowImport{Date: "2024-02-12", Venue: "G", SetlistData: "Set 1: Harry Hood"})

	clock.now = clock.now.Add(time.Hour)
	second, err := computeInsights(db, config, clock)
	if err != nil {
		t.Fatalf("computeInsights: %v", err)
	}
	if !second.Cached || !reflect.DeepEqual(second.Ranked, first.Ranked) {
		t.Errorf("second computation = %+v, want cached copy of the first", second)
	}

	clock.now = clock.now.Add(24 * time.Hour)
	third, err := computeInsights(db, config, clock)
	if err != nil {
		t.Fatalf("computeInsights: %v", err)
	}
	if third.Cached || third.Shows != 4 {
		t.Errorf("expired cache: Cached = %v, Shows = %d, want fresh result over 4 shows", third.Cached, third.Shows)
	}
}

func TestComputeInsightsEmptyWindow(t *testing.T) {
	db, _ := createTestStore(t)

	config := InsightsConfig{Mode: modeRecent, Target: day("2024-02-15"), Months: 3}
	result, err := computeInsights(db, config, &fixedClock{now: time.Now()})
	if err != nil {
		t.Fatalf("computeInsights: %v", err)
	}
	if len(result.Ranked) != 0 || result.Shows != 0 {
		t.Errorf("result = %+v, want empty", result)
	}
}

func TestComputeInsightsInvalid(t *testing.T) {
	db, _ := createTestStore(t)

	if _, err := computeInsights(db, InsightsConfig{Mode: "forever"}, &fixedClock{}); err == nil {
		t.Error("unknown mode should fail")
	}
	if _, err := computeInsights(db, InsightsConfig{Mode: modeRecent, Months: 0}, &fixedClock{}); err == nil {
		t.Error("zero months should fail")
	}
}

func TestThresholdsFor(t *testing.T) {
	tests := []struct {
		mode           string
		opener, closer int
		want           insights.Thresholds
	}{
		{modeRecent, -1, -1, insights.Thresholds{Opener: 2, Closer: 2}},
		{modeTour, -1, -1, insights.Thresholds{Opener: 5, Closer: 5}},
		{modeTour, 3, -1, insights.Thresholds{Opener: 3, Closer: 5}},
		{modeRecent, 0, 1, insights.Thresholds{Opener: 0, Closer: 1}},
	}
	for _, tt := range tests {
		if got := thresholdsFor(tt.mode, tt.opener, tt.closer); got != tt.want {
			t.Errorf("thresholdsFor(%s, %d, %d) = %+v, want %+v", tt.mode, tt.opener, tt.closer, got, tt.want)
		}
	}
}
