package phishnet

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// validDate reports whether s is a real yyyy-mm-dd date.
func validDate(s string) bool {
	if !dateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// flexInt decodes a JSON number or numeric string. Anything else decodes to 0.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	*f = 0
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		b = []byte(strings.TrimSpace(s))
	}

	n, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n < math.MinInt || n >= math.MaxInt {
		return nil
	}
	*f = flexInt(n)
	return nil
}

// flexString decodes a JSON string or number as text. null and other types
// decode to "".
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	*f = ""
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}

	switch {
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		*f = flexString(strings.TrimSpace(s))
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		*f = flexString(b)
	}
	return nil
}

// flexBool decodes true, a non-zero number, or "true"/"1" as true.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	switch strings.Trim(string(bytes.TrimSpace(b)), `"`) {
	case "true", "1":
		*f = true
	default:
		var n float64
		*f = flexBool(json.Unmarshal(b, &n) == nil && n != 0)
	}
	return nil
}

type envelope struct {
	Error        flexBool          `json:"error"`
	ErrorMessage flexString        `json:"error_message"`
	Data         []json.RawMessage `json:"data"`
}

type rawShow struct {
	ShowDate    flexString `json:"showdate"`
	Venue       flexString `json:"venue"`
	Location    flexString `json:"location"`
	City        flexString `json:"city"`
	State       flexString `json:"state"`
	Country     flexString `json:"country"`
	SetlistData flexString `json:"setlistdata"`
}

type rawSong struct {
	Song        flexString `json:"song"`
	TimesPlayed flexInt    `json:"times_played"`
	LastPlayed  flexString `json:"last_played"`
	Debut       flexString `json:"debut"`
}

type rawSetlistEntry struct {
	Song     flexString `json:"song"`
	Set      flexString `json:"set"`
	Position flexInt    `json:"position"`
}

func (r rawShow) location() string {
	if r.Location != "" {
		return string(r.Location)
	}

	var parts []string
	if r.City != "" {
		parts = append(parts, string(r.City))
	}
	if r.State != "" {
		parts = append(parts, string(r.State))
	}
	if r.Country != "" && r.Country != "USA" {
		parts = append(parts, string(r.Country))
	}
	return strings.Join(parts, ", ")
}

// dateOrEmpty keeps valid dates and blanks everything else.
func dateOrEmpty(s flexString) string {
	if validDate(string(s)) {
		return string(s)
	}
	return ""
}
