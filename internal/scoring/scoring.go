package scoring

import (
	"github.com/ademuri/setlist-tools/internal/setlist"
)

// Points per rubric item.
const (
	OpenerPoints     = 2
	Set1CloserPoints = 2
	Set2OpenerPoints = 2
	Set2CloserPoints = 2
	EncorePoints     = 2
	WildcardPoints   = 1
	RockNJockPoints  = 5
)

// RockNJock is a guess of an exact song, set and 1-indexed position. An empty
// Set or a zero Position means the guess is incomplete.
type RockNJock struct {
	Song     string `yaml:"song" json:"song"`
	Set      string `yaml:"set" json:"set"`
	Position int    `yaml:"position" json:"position"`
}

// SongPicks is one participant's predictions. Empty strings are picks that
// have not been made and never score.
type SongPicks struct {
	Opener     string    `yaml:"opener" json:"opener"`
	Set1Closer string    `yaml:"set1_closer" json:"set1Closer"`
	Set2Opener string    `yaml:"set2_opener" json:"set2Opener"`
	Set2Closer string    `yaml:"set2_closer" json:"set2Closer"`
	Encore     string    `yaml:"encore" json:"encore"`
	Wildcards  [2]string `yaml:"wildcards" json:"wildcards"`
	RockNJock  RockNJock `yaml:"rock_n_jock" json:"rockNJock"`
}

// ScoreBreakdown records which rubric items matched.
type ScoreBreakdown struct {
	Opener     bool    `yaml:"opener" json:"opener"`
	Set1Closer bool    `yaml:"set1_closer" json:"set1Closer"`
	Set2Opener bool    `yaml:"set2_opener" json:"set2Opener"`
	Set2Closer bool    `yaml:"set2_closer" json:"set2Closer"`
	Encore     bool    `yaml:"encore" json:"encore"`
	Wildcards  [2]bool `yaml:"wildcards" json:"wildcards"`
	RockNJock  bool    `yaml:"rock_n_jock" json:"rockNJock"`
}

func matches(pick, actual string) bool {
	p := setlist.Normalize(pick)
	return p != "" && p == setlist.Normalize(actual)
}

func contains(songs []string, pick string) bool {
	for _, s := range songs {
		if matches(pick, s) {
			return true
		}
	}
	return false
}

// Score compares picks against the actual setlist. Every rubric item is
// evaluated on its own and there is no partial credit. Wildcards may be
// anywhere in the show, including the encore; Rock-n-Jock can only target set
// 1 or set 2.
func Score(picks SongPicks, actual setlist.Setlist) (int, ScoreBreakdown) {
	var b ScoreBreakdown
	score := 0

	if len(actual.Set1) > 0 {
		if matches(picks.Opener, setlist.First(actual.Set1)) {
			b.Opener = true
			score += OpenerPoints
		}
		if matches(picks.Set1Closer, setlist.Last(actual.Set1)) {
			b.Set1Closer = true
			score += Set1CloserPoints
		}
	}

	if len(actual.Set2) > 0 {
		if matches(picks.Set2Opener, setlist.First(actual.Set2)) {
			b.Set2Opener = true
			score += Set2OpenerPoints
		}
		if matches(picks.Set2Closer, setlist.Last(actual.Set2)) {
			b.Set2Closer = true
			score += Set2CloserPoints
		}
	}

	if contains(actual.Encore, picks.Encore) {
		b.Encore = true
		score += EncorePoints
	}

	show := actual.Songs()
	for i, wildcard := range picks.Wildcards {
		if contains(show, wildcard) {
			b.Wildcards[i] = true
			score += WildcardPoints
		}
	}

	if rockNJockMatches(picks.RockNJock, actual) {
		b.RockNJock = true
		score += RockNJockPoints
	}

	return score, b
}

func rockNJockMatches(r RockNJock, actual setlist.Setlist) bool {
	if setlist.Normalize(r.Song) == "" || r.Position < 1 {
		return false
	}
	var set []string
	switch r.Set {
	case "1":
		set = actual.Set1
	case "2":
		set = actual.Set2
	default:
		return false
	}
	i := r.Position - 1
	if i >= len(set) {
		return false
	}
	return matches(r.Song, set[i])
}
