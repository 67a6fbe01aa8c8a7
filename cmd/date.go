package cmd

import (
	"fmt"
	"regexp"
	"time"
)

const dateFormat = "2006-01-02"

type ParsedDate struct {
	Date  time.Time
	Year  bool
	Month bool
	Day   bool
}

// dateRange is a half-open [Start, End) span of days.
type dateRange struct {
	Start time.Time
	End   time.Time
}

func (r dateRange) String() string {
	return fmt.Sprintf("%s to %s", r.Start.Format(dateFormat), r.End.AddDate(0, 0, -1).Format(dateFormat))
}

func parseDateRangeFromArgs(args []string) (start time.Time, end time.Time, err error) {
	switch len(args) {
	case 1:
		start, end, err = getImplicitDateRange(args[0])

	case 2:
		start, end, err = getExplicitDateRange(args[0], args[1])

	default:
		err = fmt.Errorf("Expected one or two date arguments")
	}
	return
}

func getImplicitDateRange(ds string) (start time.Time, end time.Time, err error) {
	date, err := parseSingleDatestring(ds)
	if err != nil {
		return
	}

	start = date.Date
	switch {
	case date.Year:
		end = start.AddDate(1, 0, 0)

	case date.Month:
		end = start.AddDate(0, 1, 0)

	case date.Day:
		end = start.AddDate(0, 0, 1)

	default:
		err = fmt.Errorf("Invalid format: %q", ds)
	}

	return
}

func getExplicitDateRange(startString, endString string) (start time.Time, end time.Time, err error) {
	startParsed, err := parseSingleDatestring(startString)
	if err != nil {
		return
	}
	start = startParsed.Date

	endParsed, err := parseSingleDatestring(endString)
	if err != nil {
		return
	}
	end = endParsed.Date

	return
}

var (
	yearRe  = regexp.MustCompile(`^\d{4}$`)
	monthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)
	dayRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

func parseSingleDatestring(ds string) (date ParsedDate, err error) {
	switch {
	case yearRe.MatchString(ds):
		date.Date, err = time.Parse("2006", ds)
		if err != nil {
			err = fmt.Errorf("Parsing datestring as year: %w", err)
			return
		}
		date.Year = true

	case monthRe.MatchString(ds):
		date.Date, err = time.Parse("2006-01", ds)
		if err != nil {
			err = fmt.Errorf("Parsing datestring as month: %w", err)
			return
		}
		date.Month = true

	case dayRe.MatchString(ds):
		date.Date, err = time.Parse(dateFormat, ds)
		if err != nil {
			err = fmt.Errorf("Parsing datestring as day: %w", err)
			return
		}
		date.Day = true

	default:
		err = fmt.Errorf("Invalid format: %q", ds)
	}
	return
}

// parseShowDate parses a yyyy-mm-dd show date. "" and "today" mean the
// current day.
func parseShowDate(ds string, now time.Time) (time.Time, error) {
	if ds == "" || ds == "today" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	date, err := parseSingleDatestring(ds)
	if err != nil {
		return time.Time{}, err
	}
	if !date.Day {
		return time.Time{}, fmt.Errorf("Expected a yyyy-mm-dd date, got %q", ds)
	}
	return date.Date, nil
}

// recentWindow is the months before target, not including target itself.
func recentWindow(target time.Time, months int) dateRange {
	return dateRange{Start: target.AddDate(0, -months, 0), End: target}
}

// tourWindow is the ten calendar years before target's year.
func tourWindow(target time.Time) dateRange {
	year := target.Year()
	return dateRange{
		Start: time.Date(year-10, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// yearShards splits r at calendar year boundaries.
func yearShards(r dateRange) []dateRange {
	var shards []dateRange
	for start := r.Start; start.Before(r.End); {
		end := time.Date(start.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC)
		if end.After(r.End) {
			end = r.End
		}
		shards = append(shards, dateRange{Start: start, End: end})
		start = end
	}
	return shards
}

// defaultUpdateYears is the last ten years plus the current one.
func defaultUpdateYears(now time.Time) []int {
	years := make([]int, 0, 11)
	for year := now.Year() - 10; year <= now.Year(); year++ {
		years = append(years, year)
	}
	return years
}
