// Package phishnet fetches show history from the phish.net v5 API.
package phishnet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go"
	"golang.org/x/time/rate"

	"github.com/ademuri/setlist-tools/internal/setlist"
)

const DefaultBaseURL = "https://api.phish.net/v5"

// ShowRecord is one show from the provider. SetlistData is the raw setlist
// text, empty when the provider has none.
type ShowRecord struct {
	Date        string
	Venue       string
	Location    string
	SetlistData string
}

// SongRecord is one entry of the song catalog.
type SongRecord struct {
	Name        string
	TimesPlayed int
	LastPlayed  string
	Debut       string
}

// Venue describes where a show was played.
type Venue struct {
	Name     string
	Location string
}

func (v Venue) String() string {
	if v.Location == "" {
		return v.Name
	}
	return v.Name + ", " + v.Location
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.URL, e.StatusCode)
}

// APIError is returned when the API reports an error in its payload.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "phish.net: " + e.Message
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	// Limiter paces every request attempt, retries included.
	Limiter    *rate.Limiter
	Attempts   uint
	RetryDelay time.Duration

	skipped atomic.Int64
}

// New returns a client limited to one request per second. An empty baseURL
// selects DefaultBaseURL.
func New(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		Limiter:    rate.NewLimiter(rate.Every(1*time.Second), 1),
		Attempts:   5,
		RetryDelay: 1 * time.Second,
	}
}

// Skipped returns how many records have been dropped because they could not
// be decoded or validated.
func (c *Client) Skipped() int64 {
	return c.skipped.Load()
}

// ShowsByYear returns every show of a year, oldest first. Shows without a
// valid date are dropped.
func (c *Client) ShowsByYear(ctx context.Context, year int) ([]ShowRecord, error) {
	data, err := c.get(ctx, "shows/showyear/"+strconv.Itoa(year)+".json", url.Values{"order_by": {"showdate"}})
	if err != nil {
		return nil, fmt.Errorf("fetching shows for %d: %w", year, err)
	}

	shows := make([]ShowRecord, 0, len(data))
	for _, item := range data {
		var raw rawShow
		if err := json.Unmarshal(item, &raw); err != nil || !validDate(string(raw.ShowDate)) {
			c.skipped.Add(1)
			continue
		}
		shows = append(shows, ShowRecord{
			Date:        string(raw.ShowDate),
			Venue:       string(raw.Venue),
			Location:    raw.location(),
			SetlistData: string(raw.SetlistData),
		})
	}
	return shows, nil
}

// Songs returns the song catalog. Entries without a name are dropped.
func (c *Client) Songs(ctx context.Context) ([]SongRecord, error) {
	data, err := c.get(ctx, "songs.json", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching songs: %w", err)
	}

	songs := make([]SongRecord, 0, len(data))
	for _, item := range data {
		var raw rawSong
		if err := json.Unmarshal(item, &raw); err != nil || raw.Song == "" {
			c.skipped.Add(1)
			continue
		}
		timesPlayed := int(raw.TimesPlayed)
		if timesPlayed < 0 {
			timesPlayed = 0
		}
		songs = append(songs, SongRecord{
			Name:        string(raw.Song),
			TimesPlayed: timesPlayed,
			LastPlayed:  dateOrEmpty(raw.LastPlayed),
			Debut:       dateOrEmpty(raw.Debut),
		})
	}
	return songs, nil
}

// Setlist returns the structured setlist of the show on date. The bool is
// false when the provider has no setlist for that date.
func (c *Client) Setlist(ctx context.Context, date string) (setlist.Setlist, bool, error) {
	if !validDate(date) {
		return setlist.Empty(), false, fmt.Errorf("invalid date %q, expected yyyy-mm-dd", date)
	}

	data, err := c.get(ctx, "setlists/showdate/"+date+".json", nil)
	if err != nil {
		return setlist.Empty(), false, fmt.Errorf("fetching setlist for %s: %w", date, err)
	}

	entries := make([]setlist.Entry, 0, len(data))
	for _, item := range data {
		var raw rawSetlistEntry
		if err := json.Unmarshal(item, &raw); err != nil || raw.Song == "" {
			c.skipped.Add(1)
			continue
		}
		entries = append(entries, setlist.Entry{
			Song:     string(raw.Song),
			Set:      string(raw.Set),
			Position: int(raw.Position),
		})
	}

	result := setlist.FromEntries(entries)
	return result, !result.IsEmpty(), nil
}

// ShowDetails returns the venue of the first show on date.
func (c *Client) ShowDetails(ctx context.Context, date string) (Venue, bool, error) {
	if !validDate(date) {
		return Venue{}, false, fmt.Errorf("invalid date %q, expected yyyy-mm-dd", date)
	}

	data, err := c.get(ctx, "shows/showdate/"+date+".json", nil)
	if err != nil {
		return Venue{}, false, fmt.Errorf("fetching show details for %s: %w", date, err)
	}

	for _, item := range data {
		var raw rawShow
		if err := json.Unmarshal(item, &raw); err != nil {
			c.skipped.Add(1)
			continue
		}
		return Venue{Name: string(raw.Venue), Location: raw.location()}, true, nil
	}
	return Venue{}, false, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]json.RawMessage, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)
	apiURL := c.baseURL + "/" + path + "?" + params.Encode()

	var data []json.RawMessage
	err := retry.Do(
		func() error {
			if err := c.Limiter.Wait(ctx); err != nil {
				return err
			}
			var err error
			data, err = c.fetch(ctx, apiURL)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.Attempts),
		retry.Delay(c.RetryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			if retryable(err) {
				fmt.Printf("phish.net request failed, retrying: %v\n", err)
				return true
			}
			return false
		}),
	)
	return data, err
}

func (c *Client) fetch(ctx context.Context, apiURL string) ([]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", "setlist-tools/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: redact(apiURL)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if env.Error {
		msg := string(env.ErrorMessage)
		if msg == "" {
			msg = "unknown error"
		}
		return nil, &APIError{Message: msg}
	}
	return env.Data, nil
}

// retryable reports whether err is a server error or a transport failure.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode/100 == 5
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// redact strips the API key from a URL before it is put in an error.
func redact(apiURL string) string {
	u, err := url.Parse(apiURL)
	if err != nil {
		return apiURL
	}
	q := u.Query()
	if q.Has("apikey") {
		q.Set("apikey", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
