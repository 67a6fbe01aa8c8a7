package setlist

import (
	"regexp"
	"strings"
)

var (
	// Matches "Set 1:", "set 3 :", "Encore:" and "Encore 2:".
	labelRe      = regexp.MustCompile(`(?i)\b(set\s*([123])|encore(?:\s*\d+)?)\s*:`)
	annotationRe = regexp.MustCompile(`\[.*?\]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	// Both "->" (segue) and ">" (transition) join songs played without a break.
	segueRe = regexp.MustCompile(`-?>`)
)

// Parse turns a free-text setlist such as
//
//	Set 1: Sand > Fuego, Free, Set 2: Tweezer, Encore: Squirming Coil
//
// into a Setlist. Segments run from their label to the next label or the end
// of the text. Songs are separated by commas, and every link of a segue chain
// ("A > B") becomes its own entry. Set 3 is appended to set 2. Text before the
// first label and labels that do not appear are ignored; Parse never fails.
func Parse(raw string) Setlist {
	result := Empty()
	var set3 []string

	matches := labelRe.FindAllStringSubmatchIndex(raw, -1)
	for i, m := range matches {
		end := len(raw)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		songs := parseSongList(raw[m[1]:end])

		if m[4] < 0 {
			result.Encore = append(result.Encore, songs...)
			continue
		}
		switch raw[m[4]:m[5]] {
		case "1":
			result.Set1 = append(result.Set1, songs...)
		case "2":
			result.Set2 = append(result.Set2, songs...)
		case "3":
			set3 = append(set3, songs...)
		}
	}

	result.Set2 = append(result.Set2, set3...)
	return result
}

func parseSongList(text string) []string {
	songs := []string{}
	for _, item := range strings.Split(text, ",") {
		for _, link := range segueRe.Split(item, -1) {
			if song := cleanSong(link); song != "" {
				songs = append(songs, song)
			}
		}
	}
	return songs
}

// cleanSong strips footnote markers like "[1]" and collapses whitespace.
func cleanSong(song string) string {
	song = annotationRe.ReplaceAllString(song, "")
	song = whitespaceRe.ReplaceAllString(song, " ")
	return strings.TrimSpace(song)
}
