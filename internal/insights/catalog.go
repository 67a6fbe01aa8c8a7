package insights

import (
	"math"
	"sort"
)

// FromCatalog derives insights from lifetime play counts. The probability of a
// song is its share of estimatedTotalShows. Catalog records carry no positional
// data, so no song is flagged as a frequent opener or closer.
func FromCatalog(records []CatalogRecord, estimatedTotalShows int) []SongInsight {
	insights := make([]SongInsight, 0, len(records))
	for _, r := range records {
		times := r.TimesPlayedAllTime
		if times < 0 {
			times = 0
		}
		insights = append(insights, SongInsight{
			Song:        r.Song,
			Probability: probability(times, estimatedTotalShows),
			TimesPlayed: times,
			LastPlayed:  r.LastPlayedOrDebut,
		})
	}
	sortByProbability(insights)
	return insights
}

// probability is round(count/total*100), clamped into [0,100].
func probability(count, total int) int {
	if total <= 0 || count <= 0 {
		return 0
	}
	p := int(math.Round(float64(count) / float64(total) * 100))
	if p > 100 {
		return 100
	}
	return p
}

// sortByProbability orders highest probability first. Ties keep their input
// order.
func sortByProbability(insights []SongInsight) {
	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Probability > insights[j].Probability
	})
}

// Top returns at most n insights from the front of a ranked list. n <= 0
// returns all of them.
func Top(insights []SongInsight, n int) []SongInsight {
	if n <= 0 || n >= len(insights) {
		return insights
	}
	return insights[:n]
}
