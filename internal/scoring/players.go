package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/ademuri/setlist-tools/internal/setlist"
)

// Player is a participant and, once scored, their result.
type Player struct {
	ID        string         `yaml:"id" json:"id"`
	Name      string         `yaml:"name" json:"name"`
	Picks     SongPicks      `yaml:"picks" json:"picks"`
	Score     int            `yaml:"score" json:"score"`
	Breakdown ScoreBreakdown `yaml:"breakdown" json:"breakdown"`
}

// ScorePlayers scores every player against the actual setlist and returns a
// leaderboard, highest score first. Players with equal scores keep their input
// order. Players without an ID are given one.
func ScorePlayers(players []Player, actual setlist.Setlist) []Player {
	board := make([]Player, len(players))
	for i, p := range players {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		p.Score, p.Breakdown = Score(p.Picks, actual)
		board[i] = p
	}
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].Score > board[j].Score
	})
	return board
}

// Validate lists picks that are filled in but can never score. It is advisory:
// Score accepts any picks.
func Validate(picks SongPicks) []string {
	var problems []string
	r := picks.RockNJock
	filled := 0
	if strings.TrimSpace(r.Song) != "" {
		filled++
	}
	if r.Set != "" {
		filled++
		if r.Set != "1" && r.Set != "2" {
			problems = append(problems, fmt.Sprintf("rock-n-jock set %q must be \"1\" or \"2\"", r.Set))
		}
	}
	if r.Position != 0 {
		filled++
		if r.Position < 0 {
			problems = append(problems, fmt.Sprintf("rock-n-jock position %d must be 1 or more", r.Position))
		}
	}
	if filled > 0 && filled < 3 {
		problems = append(problems, "rock-n-jock needs a song, a set and a position")
	}
	return problems
}
