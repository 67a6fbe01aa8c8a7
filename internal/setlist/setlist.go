package setlist

import (
	"sort"
	"strings"
)

// Setlist is the songs performed at one show, in performance order. Set2 also
// holds any third set.
type Setlist struct {
	Set1   []string `yaml:"set1" json:"set1"`
	Set2   []string `yaml:"set2" json:"set2"`
	Encore []string `yaml:"encore" json:"encore"`
}

// Show pairs a setlist with the ISO (yyyy-mm-dd) date it was played.
type Show struct {
	Date    string
	Setlist Setlist
}

// Empty returns a setlist with all three parts set to empty, non-nil slices.
func Empty() Setlist {
	return Setlist{Set1: []string{}, Set2: []string{}, Encore: []string{}}
}

// Songs returns every song of the show: set 1, then set 2, then the encore.
func (s Setlist) Songs() []string {
	songs := make([]string, 0, len(s.Set1)+len(s.Set2)+len(s.Encore))
	songs = append(songs, s.Set1...)
	songs = append(songs, s.Set2...)
	songs = append(songs, s.Encore...)
	return songs
}

func (s Setlist) IsEmpty() bool {
	return len(s.Set1) == 0 && len(s.Set2) == 0 && len(s.Encore) == 0
}

// First returns the first song of a set, or "" if the set is empty.
func First(set []string) string {
	if len(set) == 0 {
		return ""
	}
	return set[0]
}

// Last returns the last song of a set, or "" if the set is empty.
func Last(set []string) string {
	if len(set) == 0 {
		return ""
	}
	return set[len(set)-1]
}

// Normalize is the form song names are compared in: lowercased and trimmed.
func Normalize(song string) string {
	return strings.TrimSpace(strings.ToLower(song))
}

// Entry is one row of an already-structured setlist feed.
type Entry struct {
	Song     string
	Set      string // "1", "2", "3" or "E"
	Position int
}

// FromEntries groups structured rows into a Setlist. Rows are ordered by
// position within their set, set 3 follows set 2, and rows with no song or an
// unknown set are dropped.
func FromEntries(entries []Entry) Setlist {
	bySet := map[string][]Entry{}
	for _, e := range entries {
		song := strings.TrimSpace(e.Song)
		if song == "" {
			continue
		}
		set := strings.ToUpper(strings.TrimSpace(e.Set))
		switch set {
		case "1", "2", "3", "E":
		default:
			continue
		}
		e.Song = song
		bySet[set] = append(bySet[set], e)
	}

	names := func(set string) []string {
		rows := bySet[set]
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Position < rows[j].Position
		})
		out := make([]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.Song)
		}
		return out
	}

	result := Empty()
	result.Set1 = names("1")
	result.Set2 = append(names("2"), names("3")...)
	result.Encore = names("E")
	return result
}
