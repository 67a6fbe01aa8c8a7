package insights

import (
	"sync"

	"github.com/ademuri/setlist-tools/internal/setlist"
)

// SongStats is what a Tally knows about one song.
type SongStats struct {
	Count           int
	LastPlayed      string
	OpenerCount     int
	Set1CloserCount int
	Set2OpenerCount int
	Set2CloserCount int
	EncoreCount     int
}

func (s *SongStats) merge(o *SongStats) {
	s.Count += o.Count
	s.OpenerCount += o.OpenerCount
	s.Set1CloserCount += o.Set1CloserCount
	s.Set2OpenerCount += o.Set2OpenerCount
	s.Set2CloserCount += o.Set2CloserCount
	s.EncoreCount += o.EncoreCount
	if o.LastPlayed > s.LastPlayed {
		s.LastPlayed = o.LastPlayed
	}
}

// Tally accumulates song statistics over a window of shows. Counts are summed
// and last-played dates take the maximum, so tallies built over disjoint sets
// of shows can be merged in any order.
type Tally struct {
	shows int
	order []string
	stats map[string]*SongStats
}

func NewTally() *Tally {
	return &Tally{stats: make(map[string]*SongStats)}
}

// Shows is the number of shows counted so far.
func (t *Tally) Shows() int {
	return t.shows
}

// Stats returns the accumulated statistics for a song.
func (t *Tally) Stats(song string) (SongStats, bool) {
	s, ok := t.stats[song]
	if !ok {
		return SongStats{}, false
	}
	return *s, true
}

func (t *Tally) get(song string) *SongStats {
	s, ok := t.stats[song]
	if !ok {
		s = &SongStats{}
		t.stats[song] = s
		t.order = append(t.order, song)
	}
	return s
}

// Add counts one show. Shows with an empty setlist are not counted and Add
// reports false.
func (t *Tally) Add(show setlist.Show) bool {
	sl := show.Setlist
	if sl.IsEmpty() {
		return false
	}
	t.shows++

	for _, song := range sl.Songs() {
		if song == "" {
			continue
		}
		s := t.get(song)
		s.Count++
		if show.Date > s.LastPlayed {
			s.LastPlayed = show.Date
		}
	}

	if song := setlist.First(sl.Set1); song != "" {
		t.get(song).OpenerCount++
	}
	if song := setlist.Last(sl.Set1); song != "" {
		t.get(song).Set1CloserCount++
	}
	if song := setlist.First(sl.Set2); song != "" {
		t.get(song).Set2OpenerCount++
	}
	if song := setlist.Last(sl.Set2); song != "" {
		t.get(song).Set2CloserCount++
	}
	seen := make(map[string]bool)
	for _, song := range sl.Encore {
		if song == "" || seen[song] {
			continue
		}
		seen[song] = true
		t.get(song).EncoreCount++
	}
	return true
}

// Merge folds other into t. other is not modified.
func (t *Tally) Merge(other *Tally) {
	if other == nil {
		return
	}
	t.shows += other.shows
	for _, song := range other.order {
		t.get(song).merge(other.stats[song])
	}
}

// Insights turns the tally into ranked insights. Songs are listed in the
// order they were first counted before the stable sort by probability.
func (t *Tally) Insights(th Thresholds) []SongInsight {
	insights := make([]SongInsight, 0, len(t.order))
	for _, song := range t.order {
		s := t.stats[song]
		insights = append(insights, SongInsight{
			Song:             song,
			Probability:      probability(s.Count, t.shows),
			TimesPlayed:      s.Count,
			LastPlayed:       s.LastPlayed,
			IsFrequentOpener: s.OpenerCount >= th.Opener,
			IsFrequentCloser: s.Set1CloserCount+s.Set2CloserCount >= th.Closer,
		})
	}
	sortByProbability(insights)
	return insights
}

// FromShows derives insights from the shows of a window.
func FromShows(shows []setlist.Show, th Thresholds) []SongInsight {
	t := NewTally()
	for _, show := range shows {
		t.Add(show)
	}
	return t.Insights(th)
}

// TallyParallel tallies each shard of shows concurrently and merges the
// results in shard order.
func TallyParallel(shards [][]setlist.Show) *Tally {
	tallies := make([]*Tally, len(shards))
	var wg sync.WaitGroup
	for i, shard := range shards {
		wg.Add(1)
		go func(i int, shard []setlist.Show) {
			defer wg.Done()
			t := NewTally()
			for _, show := range shard {
				t.Add(show)
			}
			tallies[i] = t
		}(i, shard)
	}
	wg.Wait()

	total := NewTally()
	for _, t := range tallies {
		total.Merge(t)
	}
	return total
}
