package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Show is a stored show.
type Show struct {
	Date        string
	Venue       string
	Location    string
	SetlistData string
}

func (s *Store) GetYearUpdated(year int) (time.Time, error) {
	row := s.db.QueryRow("SELECT last_updated FROM Year WHERE year = ?", year)
	var t sql.NullTime
	err := row.Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("getting last updated for %d: %w", year, err)
	}
	return t.Time, nil
}

// GetShowsInRange returns shows dated start <= date < end, oldest first. Both
// bounds are yyyy-mm-dd strings.
func (s *Store) GetShowsInRange(start, end string) ([]Show, error) {
	query := `
		SELECT date, venue, location, setlistdata
		FROM Show
		WHERE date >= ? AND date < ?
		ORDER BY date ASC, id ASC
	`
	rows, err := s.db.Query(query, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying shows: %w", err)
	}
	defer rows.Close()

	return scanShows(rows)
}

// GetShowsOnDate returns every show played on a date.
func (s *Store) GetShowsOnDate(date string) ([]Show, error) {
	rows, err := s.db.Query("SELECT date, venue, location, setlistdata FROM Show WHERE date = ? ORDER BY id ASC", date)
	if err != nil {
		return nil, fmt.Errorf("querying shows on %s: %w", date, err)
	}
	defer rows.Close()

	return scanShows(rows)
}

func scanShows(rows *sql.Rows) ([]Show, error) {
	var shows []Show
	for rows.Next() {
		var show Show
		var setlistData sql.NullString
		if err := rows.Scan(&show.Date, &show.Venue, &show.Location, &setlistData); err != nil {
			return nil, err
		}
		show.SetlistData = setlistData.String
		shows = append(shows, show)
	}
	return shows, rows.Err()
}

// GetLatestShowDate returns the date of the most recent stored show, or "".
func (s *Store) GetLatestShowDate() (string, error) {
	var date sql.NullString
	err := s.db.QueryRow("SELECT MAX(date) FROM Show").Scan(&date)
	if err != nil {
		return "", fmt.Errorf("getting latest show: %w", err)
	}
	return date.String, nil
}

// GetSongs returns the catalog in insertion order.
func (s *Store) GetSongs() ([]SongImport, error) {
	rows, err := s.db.Query("SELECT name, times_played, last_played, debut FROM Song ORDER BY rowid ASC")
	if err != nil {
		return nil, fmt.Errorf("querying songs: %w", err)
	}
	defer rows.Close()

	var songs []SongImport
	for rows.Next() {
		var song SongImport
		if err := rows.Scan(&song.Name, &song.TimesPlayed, &song.LastPlayed, &song.Debut); err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}
