package phishnet

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/ademuri/setlist-tools/internal/setlist"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New("test-key", server.URL)
	client.Limiter = rate.NewLimiter(rate.Inf, 1)
	client.RetryDelay = time.Millisecond
	return client
}

func TestShowsByYear(t *testing.T) {
	var gotPath, gotKey, gotOrder string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("apikey")
		gotOrder = r.URL.Query().Get("order_by")
		fmt.Fprint(w, `{"error": false, "error_message": "", "data": [
			{"showdate": "2023-07-14", "venue": "Madison Square Garden", "location": "New York, NY", "setlistdata": "Set 1: Sand"},
			{"showdate": "2023-07-15", "venue": "Venue", "city": "Mexico City", "state": "", "country": "Mexico"},
			{"showdate": "07/16/2023", "venue": "Bad Date"},
			{"showdate": 2023, "venue": "Numeric Date"},
			"not an object"
		]}`)
	})

	shows, err := client.ShowsByYear(context.Background(), 2023)
	if err != nil {
		t.Fatalf("ShowsByYear: %v", err)
	}
	if gotPath != "/shows/showyear/2023.json" || gotKey != "test-key" || gotOrder != "showdate" {
		t.Errorf("request = %s key=%q order_by=%q", gotPath, gotKey, gotOrder)
	}

	want := []ShowRecord{
		{Date: "2023-07-14", Venue: "Madison Square Garden", Location: "New York, NY", SetlistData: "Set 1: Sand"},
		{Date: "2023-07-15", Venue: "Venue", Location: "Mexico City, Mexico"},
	}
	if !reflect.DeepEqual(shows, want) {
		t.Errorf("ShowsByYear() = %+v, want %+v", shows, want)
	}
	if client.Skipped() != 3 {
		t.Errorf("Skipped() = %d, want 3", client.Skipped())
	}
}

func TestSongs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/songs.json" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"error": 0, "data": [
			{"song": "Tweezer", "times_played": 450, "last_played": "2023-08-01", "debut": "1990-02-03"},
			{"song": "Fluffhead", "times_played": "200", "last_played": null, "debut": "1984-10-23"},
			{"song": "Mystery", "times_played": "lots", "last_played": "yesterday"},
			{"song": "", "times_played": 3}
		]}`)
	})

	songs, err := client.Songs(context.Background())
	if err != nil {
		t.Fatalf("Songs: %v", err)
	}
	want := []SongRecord{
		{Name: "Tweezer", TimesPlayed: 450, LastPlayed: "2023-08-01", Debut: "1990-02-03"},
		{Name: "Fluffhead", TimesPlayed: 200, Debut: "1984-10-23"},
		{Name: "Mystery"},
	}
	if !reflect.DeepEqual(songs, want) {
		t.Errorf("Songs() = %+v, want %+v", songs, want)
	}
	if client.Skipped() != 1 {
		t.Errorf("Skipped() = %d, want 1", client.Skipped())
	}
}

func TestSetlist(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/setlists/showdate/2023-12-31.json" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"error": false, "data": [
			{"song": "Tweezer Reprise", "set": "e", "position": 12},
			{"song": "Ghost", "set": "3", "position": 10},
			{"song": "Sand", "set": "2", "position": "9"},
			{"song": "Free", "set": "1", "position": 2},
			{"song": "Wilson", "set": "1", "position": 1},
			{"song": "Soundcheck Jam", "set": "S", "position": 0}
		]}`)
	})

	got, ok, err := client.Setlist(context.Background(), "2023-12-31")
	if err != nil {
		t.Fatalf("Setlist: %v", err)
	}
	if !ok {
		t.Fatalf("Setlist() reported no setlist")
	}
	want := setlist.Setlist{
		Set1:   []string{"Wilson", "Free"},
		Set2:   []string{"Sand", "Ghost"},
		Encore: []string{"Tweezer Reprise"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Setlist() = %+v, want %+v", got, want)
	}
}

func TestSetlistMissing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error": false, "data": []}`)
	})

	got, ok, err := client.Setlist(context.Background(), "2030-01-01")
	if err != nil {
		t.Fatalf("Setlist: %v", err)
	}
	if ok || !got.IsEmpty() {
		t.Errorf("Setlist() = %+v, %v, want empty", got, ok)
	}

	if _, _, err := client.Setlist(context.Background(), "tomorrow"); err == nil {
		t.Errorf("Setlist(\"tomorrow\") should fail")
	}
}

func TestShowDetails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error": false, "data": [
			{"showdate": "2023-07-14", "venue": "The Gorge", "city": "George", "state": "WA", "country": "USA"}
		]}`)
	})

	venue, ok, err := client.ShowDetails(context.Background(), "2023-07-14")
	if err != nil {
		t.Fatalf("ShowDetails: %v", err)
	}
	if !ok {
		t.Fatalf("ShowDetails() found nothing")
	}
	if venue.String() != "The Gorge, George, WA" {
		t.Errorf("ShowDetails() = %q, want %q", venue.String(), "The Gorge, George, WA")
	}
}

func TestAPIError(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"error": true, "error_message": "invalid api key", "data": []}`)
	})

	_, err := client.Songs(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Songs() error = %v, want APIError", err)
	}
	if apiErr.Message != "invalid api key" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if calls.Load() != 1 {
		t.Errorf("API errors should not be retried, got %d calls", calls.Load())
	}
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"error": false, "data": [{"song": "Sand", "times_played": 1}]}`)
	})

	songs, err := client.Songs(context.Background())
	if err != nil {
		t.Fatalf("Songs: %v", err)
	}
	if len(songs) != 1 || calls.Load() != 3 {
		t.Errorf("got %d songs after %d calls, want 1 song after 3 calls", len(songs), calls.Load())
	}
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.ShowsByYear(context.Background(), 1900)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("ShowsByYear() error = %v, want 404 StatusError", err)
	}
	if calls.Load() != 1 {
		t.Errorf("got %d calls, want 1", calls.Load())
	}
}

func TestGivesUpAfterAttempts(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	client.Attempts = 2

	if _, err := client.Songs(context.Background()); err == nil {
		t.Fatalf("Songs() should fail")
	}
	if calls.Load() != 2 {
		t.Errorf("got %d calls, want 2", calls.Load())
	}
}

func TestRedact(t *testing.T) {
	got := redact("https://api.phish.net/v5/songs.json?apikey=secret")
	if got != "https://api.phish.net/v5/songs.json?apikey=REDACTED" {
		t.Errorf("redact() = %q", got)
	}
}
