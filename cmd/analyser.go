/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/ademuri/setlist-tools/internal/insights"
	"github.com/ademuri/setlist-tools/internal/scoring"
	"github.com/ademuri/setlist-tools/internal/setlist"
)

// Analysis is a table of results: a header row followed by data rows.
type Analysis struct {
	results [][]string
	summary string
}

func (a Analysis) String() string {
	out := new(bytes.Buffer)
	if len(a.results) > 1 {
		table := tablewriter.NewWriter(out)
		table.Header(a.results[0])
		for _, row := range a.results[1:] {
			if err := table.Append(row); err != nil {
				return fmt.Sprintf("Error rendering table: %v", err)
			}
		}
		if err := table.Render(); err != nil {
			return fmt.Sprintf("Error rendering table: %v", err)
		}
	}
	fmt.Fprintf(out, "%s\n", a.summary)
	return out.String()
}

// HTML renders the analysis for an email body.
func (a Analysis) HTML() string {
	var out strings.Builder
	if len(a.results) <= 1 {
		out.WriteString("<div>Nothing found.</div>\n")
	} else {
		out.WriteString("<table>\n<thead>\n<tr>")
		for _, header := range a.results[0] {
			fmt.Fprintf(&out, "<th>%s</th>", html.EscapeString(header))
		}
		out.WriteString("</tr>\n</thead>\n<tbody>\n")
		for _, row := range a.results[1:] {
			out.WriteString("<tr>")
			for _, column := range row {
				fmt.Fprintf(&out, "<td>%s</td>", html.EscapeString(column))
			}
			out.WriteString("</tr>\n")
		}
		out.WriteString("</tbody>\n</table>\n")
	}
	fmt.Fprintf(&out, "<div>%s</div>\n", html.EscapeString(a.summary))
	return out.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func insightsAnalysis(ranked []insights.SongInsight, summary string) Analysis {
	results := [][]string{{"#", "Song", "Probability", "Times Played", "Last Played", "Opener", "Closer"}}
	for i, in := range ranked {
		results = append(results, []string{
			strconv.Itoa(i + 1),
			in.Song,
			fmt.Sprintf("%d%%", in.Probability),
			strconv.Itoa(in.TimesPlayed),
			in.LastPlayed,
			yesNo(in.IsFrequentOpener),
			yesNo(in.IsFrequentCloser),
		})
	}
	return Analysis{results: results, summary: summary}
}

func setlistAnalysis(s setlist.Setlist) Analysis {
	results := [][]string{{"Set", "#", "Song"}}
	add := func(name string, songs []string) {
		for i, song := range songs {
			results = append(results, []string{name, strconv.Itoa(i + 1), song})
		}
	}
	add("1", s.Set1)
	add("2", s.Set2)
	add("E", s.Encore)

	return Analysis{
		results: results,
		summary: fmt.Sprintf("%d songs: set 1 %d, set 2 %d, encore %d",
			len(s.Songs()), len(s.Set1), len(s.Set2), len(s.Encore)),
	}
}

func leaderboardAnalysis(board []scoring.Player) Analysis {
	results := [][]string{{"Rank", "Player", "Score"}}
	rank := 0
	for i, p := range board {
		// Tied players share a rank.
		if i == 0 || p.Score != board[i-1].Score {
			rank = i + 1
		}
		results = append(results, []string{strconv.Itoa(rank), p.Name, strconv.Itoa(p.Score)})
	}
	return Analysis{results: results, summary: fmt.Sprintf("%d players", len(board))}
}

func breakdownAnalysis(board []scoring.Player) Analysis {
	results := [][]string{{"Player", "Opener", "Set 1 Closer", "Set 2 Opener", "Set 2 Closer", "Encore", "Wildcards", "Rock-n-Jock"}}
	for _, p := range board {
		mark := func(pick string, hit bool) string {
			if pick == "" {
				return "-"
			}
			if hit {
				return pick + " ✓"
			}
			return pick
		}
		var wildcards []string
		for i, w := range p.Picks.Wildcards {
			if w != "" {
				wildcards = append(wildcards, mark(w, p.Breakdown.Wildcards[i]))
			}
		}
		rnj := "-"
		if r := p.Picks.RockNJock; r.Song != "" {
			rnj = mark(fmt.Sprintf("%s (set %s #%d)", r.Song, r.Set, r.Position), p.Breakdown.RockNJock)
		}
		results = append(results, []string{
			p.Name,
			mark(p.Picks.Opener, p.Breakdown.Opener),
			mark(p.Picks.Set1Closer, p.Breakdown.Set1Closer),
			mark(p.Picks.Set2Opener, p.Breakdown.Set2Opener),
			mark(p.Picks.Set2Closer, p.Breakdown.Set2Closer),
			mark(p.Picks.Encore, p.Breakdown.Encore),
			strings.Join(wildcards, ", "),
			rnj,
		})
	}
	return Analysis{results: results, summary: "✓ marks a pick that scored"}
}
