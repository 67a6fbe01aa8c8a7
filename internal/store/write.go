package store

import (
	"database/sql"
	"fmt"
	"time"
)

// ShowImport is one show as received from the provider. An empty SetlistData
// means the provider has no setlist for the show.
type ShowImport struct {
	Date        string
	Venue       string
	Location    string
	SetlistData string
}

// SongImport is one song of the provider's catalog.
type SongImport struct {
	Name        string
	TimesPlayed int
	LastPlayed  string
	Debut       string
}

// AddShows inserts or refreshes a batch of shows transactionally.
func (s *Store) AddShows(shows []ShowImport) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, show := range shows {
		if err := upsertShow(tx, show); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func upsertShow(tx *sql.Tx, show ShowImport) error {
	var setlistData sql.NullString
	if show.SetlistData != "" {
		setlistData = sql.NullString{String: show.SetlistData, Valid: true}
	}

	var id int64
	err := tx.QueryRow("SELECT id FROM Show WHERE date = ? AND venue = ?", show.Date, show.Venue).Scan(&id)
	if err == sql.ErrNoRows {
		_, err := tx.Exec("INSERT INTO Show (date, venue, location, setlistdata) VALUES (?, ?, ?, ?)",
			show.Date, show.Venue, show.Location, setlistData)
		if err != nil {
			return fmt.Errorf("inserting show %s %q: %w", show.Date, show.Venue, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking show %s %q: %w", show.Date, show.Venue, err)
	}

	// A setlist already on file is kept if the provider sends an empty one.
	_, err = tx.Exec("UPDATE Show SET location = ?, setlistdata = COALESCE(?, setlistdata) WHERE id = ?",
		show.Location, setlistData, id)
	if err != nil {
		return fmt.Errorf("updating show %s %q: %w", show.Date, show.Venue, err)
	}
	return nil
}

// ReplaceSongs replaces the stored catalog.
func (s *Store) ReplaceSongs(songs []SongImport) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM Song"); err != nil {
		return fmt.Errorf("clearing songs: %w", err)
	}
	for _, song := range songs {
		_, err := tx.Exec("INSERT OR REPLACE INTO Song (name, times_played, last_played, debut) VALUES (?, ?, ?, ?)",
			song.Name, song.TimesPlayed, song.LastPlayed, song.Debut)
		if err != nil {
			return fmt.Errorf("inserting song %q: %w", song.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *Store) SetYearUpdated(year int, updated time.Time) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO Year (year, last_updated) VALUES (?, ?)", year, updated)
	if err != nil {
		return fmt.Errorf("updating last_updated for %d: %w", year, err)
	}
	return nil
}
