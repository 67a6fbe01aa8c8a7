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
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ademuri/setlist-tools/internal/scoring"
)

// picksFile is the on-disk form of a game's picks, in yaml or toml.
type picksFile struct {
	Players []picksFilePlayer `yaml:"players" toml:"players"`
}

type picksFilePlayer struct {
	ID    string         `yaml:"id" toml:"id"`
	Name  string         `yaml:"name" toml:"name"`
	Picks picksFileEntry `yaml:"picks" toml:"picks"`
}

type picksFileEntry struct {
	Opener     string             `yaml:"opener" toml:"opener"`
	Set1Closer string             `yaml:"set1_closer" toml:"set1_closer"`
	Set2Opener string             `yaml:"set2_opener" toml:"set2_opener"`
	Set2Closer string             `yaml:"set2_closer" toml:"set2_closer"`
	Encore     string             `yaml:"encore" toml:"encore"`
	Wildcards  []string           `yaml:"wildcards" toml:"wildcards"`
	RockNJock  picksFileRockNJock `yaml:"rock_n_jock" toml:"rock_n_jock"`
}

type picksFileRockNJock struct {
	Song     string `yaml:"song" toml:"song"`
	Set      string `yaml:"set" toml:"set"`
	Position int    `yaml:"position" toml:"position"`
}

// loadPicks reads players from a .yaml, .yml or .toml file.
func loadPicks(path string) ([]scoring.Player, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading picks: %w", err)
	}

	var file picksFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(b))
		decoder.KnownFields(true)
		if err := decoder.Decode(&file); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".toml":
		decoder := toml.NewDecoder(bytes.NewReader(b))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&file); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported picks file %q, expected .yaml or .toml", path)
	}

	if len(file.Players) == 0 {
		return nil, fmt.Errorf("%s has no players", path)
	}

	players := make([]scoring.Player, 0, len(file.Players))
	for i, p := range file.Players {
		if len(p.Picks.Wildcards) > 2 {
			return nil, fmt.Errorf("player %d (%s) has %d wildcards, at most 2 allowed", i+1, p.Name, len(p.Picks.Wildcards))
		}
		name := strings.TrimSpace(p.Name)
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}

		picks := scoring.SongPicks{
			Opener:     p.Picks.Opener,
			Set1Closer: p.Picks.Set1Closer,
			Set2Opener: p.Picks.Set2Opener,
			Set2Closer: p.Picks.Set2Closer,
			Encore:     p.Picks.Encore,
			RockNJock: scoring.RockNJock{
				Song:     p.Picks.RockNJock.Song,
				Set:      p.Picks.RockNJock.Set,
				Position: p.Picks.RockNJock.Position,
			},
		}
		copy(picks.Wildcards[:], p.Picks.Wildcards)

		players = append(players, scoring.Player{ID: p.ID, Name: name, Picks: picks})
	}
	return players, nil
}
