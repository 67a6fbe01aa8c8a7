package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ademuri/setlist-tools/internal/insights"
)

// Clock supplies the current time to the insight cache.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// InsightCache keeps computed insights for ttl, keyed by a caller-chosen name
// such as "recent:2024-07-01".
type InsightCache struct {
	store *Store
	ttl   time.Duration
	clock Clock
}

func (s *Store) InsightCache(ttl time.Duration, clock Clock) *InsightCache {
	if clock == nil {
		clock = SystemClock{}
	}
	return &InsightCache{store: s, ttl: ttl, clock: clock}
}

// Get returns the cached insights for key if they were computed less than ttl
// ago. A non-positive ttl disables the cache.
func (c *InsightCache) Get(key string) ([]insights.SongInsight, bool, error) {
	if c.ttl <= 0 {
		return nil, false, nil
	}

	var payload string
	var computedAt time.Time
	err := c.store.db.QueryRow("SELECT payload, computed_at FROM InsightCache WHERE key = ?", key).Scan(&payload, &computedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cached insights %q: %w", key, err)
	}

	if c.clock.Now().Sub(computedAt) >= c.ttl {
		return nil, false, nil
	}

	var cached []insights.SongInsight
	if err := json.Unmarshal([]byte(payload), &cached); err != nil {
		return nil, false, fmt.Errorf("decoding cached insights %q: %w", key, err)
	}
	return cached, true, nil
}

// Put stores insights under key, stamped with the clock's current time.
func (c *InsightCache) Put(key string, values []insights.SongInsight) error {
	payload, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encoding insights %q: %w", key, err)
	}
	_, err = c.store.db.Exec("INSERT OR REPLACE INTO InsightCache (key, payload, computed_at) VALUES (?, ?, ?)",
		key, string(payload), c.clock.Now())
	if err != nil {
		return fmt.Errorf("caching insights %q: %w", key, err)
	}
	return nil
}

// ClearInsightCache drops every cached result. Call it whenever shows or the
// catalog change.
func (s *Store) ClearInsightCache() error {
	if _, err := s.db.Exec("DELETE FROM InsightCache"); err != nil {
		return fmt.Errorf("clearing insight cache: %w", err)
	}
	return nil
}
