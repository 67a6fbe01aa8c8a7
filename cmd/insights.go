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
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/setlist-tools/internal/insights"
	"github.com/ademuri/setlist-tools/internal/setlist"
	"github.com/ademuri/setlist-tools/internal/store"
)

const (
	modeCatalog = "catalog"
	modeRecent  = "recent"
	modeTour    = "tour"

	defaultEstimatedTotalShows = 3500
)

type InsightsConfig struct {
	DbPath              string
	Mode                string
	Target              time.Time
	Months              int
	Thresholds          insights.Thresholds
	EstimatedTotalShows int
	CacheTTL            time.Duration
	Top                 int
}

// insightsResult is a ranked list plus what it was computed from.
type insightsResult struct {
	Mode       string
	Period     string
	Shows      int
	Thresholds insights.Thresholds
	Ranked     []insights.SongInsight
	Cached     bool
}

func (r insightsResult) summary() string {
	if r.Mode == modeCatalog {
		return fmt.Sprintf("%d songs, lifetime play counts", len(r.Ranked))
	}
	s := fmt.Sprintf("%d songs, %s", len(r.Ranked), r.Period)
	if r.Cached {
		return s + " (cached)"
	}
	return fmt.Sprintf("%s, %d shows", s, r.Shows)
}

var insightsCmd = &cobra.Command{
	Use:   "insights <catalog|recent|tour> [date]",
	Short: "Ranks songs by how likely they are to be played",
	Long: `Ranks songs for a show on [date] (default today) from the local database.
  catalog: lifetime play counts against an estimated total number of shows.
  recent:  shows in the --months before date. Frequent opener/closer at 2 plays.
  tour:    shows in the ten calendar years before date's year. Frequent at 5 plays.`,
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: []string{modeCatalog, modeRecent, modeTour},
	Run: func(cmd *cobra.Command, args []string) {
		var ds string
		if len(args) == 2 {
			ds = args[1]
		}
		target, err := parseShowDate(ds, time.Now())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		mode := args[0]
		opener, _ := cmd.Flags().GetInt("opener")
		closer, _ := cmd.Flags().GetInt("closer")
		months, _ := cmd.Flags().GetInt("months")
		top, _ := cmd.Flags().GetInt("top")
		ttl, _ := cmd.Flags().GetDuration("cache-ttl")
		asYaml, _ := cmd.Flags().GetBool("yaml")

		config := InsightsConfig{
			DbPath:              viper.GetString("database"),
			Mode:                mode,
			Target:              target,
			Months:              months,
			Thresholds:          thresholdsFor(mode, opener, closer),
			EstimatedTotalShows: viper.GetInt("estimated_total_shows"),
			CacheTTL:            ttl,
			Top:                 top,
		}
		if err := runInsights(config, asYaml); err != nil {
			fmt.Fprintf(os.Stderr, "Error computing insights: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(insightsCmd)

	insightsCmd.Flags().Int("months", 3, "Length of the recent window")
	insightsCmd.Flags().Int("opener", -1, "Openings needed to be a frequent opener (default 2 for recent, 5 for tour)")
	insightsCmd.Flags().Int("closer", -1, "Set closings needed to be a frequent closer (default 2 for recent, 5 for tour)")
	insightsCmd.Flags().Int("top", 25, "Number of songs to show, 0 for all")
	insightsCmd.Flags().Duration("cache-ttl", 24*time.Hour, "How long computed insights are reused, 0 to disable")
	insightsCmd.Flags().Bool("yaml", false, "Print a yaml report instead of a table")

	var estimated int
	insightsCmd.Flags().IntVar(&estimated, "estimated_total_shows", defaultEstimatedTotalShows, "Estimated lifetime show count for catalog mode")
	viper.BindPFlag("estimated_total_shows", insightsCmd.Flags().Lookup("estimated_total_shows"))
}

// thresholdsFor fills negative thresholds with the mode's default.
func thresholdsFor(mode string, opener, closer int) insights.Thresholds {
	def := 2
	if mode == modeTour {
		def = 5
	}
	th := insights.Thresholds{Opener: opener, Closer: closer}
	if th.Opener < 0 {
		th.Opener = def
	}
	if th.Closer < 0 {
		th.Closer = def
	}
	return th
}

func runInsights(config InsightsConfig, asYaml bool) error {
	db, err := openStore(config.DbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	exists, err := db.Exists()
	if err != nil {
		return fmt.Errorf("checking db: %w", err)
	}
	if !exists {
		return fmt.Errorf("database empty or missing. Run 'update' first")
	}

	result, err := computeInsights(db, config, store.SystemClock{})
	if err != nil {
		return err
	}

	if asYaml {
		report := insights.NewReport(result.Mode, result.Period, result.Shows, result.Thresholds, result.Ranked, config.Top, time.Now())
		return encodeYaml(os.Stdout, report)
	}
	if len(result.Ranked) == 0 {
		fmt.Println("No songs found. Run 'update' to fetch shows for this period.")
		return nil
	}
	fmt.Print(insightsAnalysis(insights.Top(result.Ranked, config.Top), result.summary()).String())
	return nil
}

func cacheKey(config InsightsConfig) string {
	switch config.Mode {
	case modeCatalog:
		return fmt.Sprintf("%s:%d", modeCatalog, config.EstimatedTotalShows)
	case modeRecent:
		return fmt.Sprintf("%s:%s:%dm:%d/%d", modeRecent, config.Target.Format(dateFormat), config.Months,
			config.Thresholds.Opener, config.Thresholds.Closer)
	default:
		return fmt.Sprintf("%s:%d:%d/%d", config.Mode, config.Target.Year(),
			config.Thresholds.Opener, config.Thresholds.Closer)
	}
}

func computeInsights(db *store.Store, config InsightsConfig, clock store.Clock) (insightsResult, error) {
	result := insightsResult{Mode: config.Mode, Thresholds: config.Thresholds}

	var window dateRange
	switch config.Mode {
	case modeCatalog:
		if config.EstimatedTotalShows == 0 {
			config.EstimatedTotalShows = defaultEstimatedTotalShows
		}
	case modeRecent:
		if config.Months <= 0 {
			return result, fmt.Errorf("--months must be positive, got %d", config.Months)
		}
		window = recentWindow(config.Target, config.Months)
	case modeTour:
		window = tourWindow(config.Target)
	default:
		return result, fmt.Errorf("Invalid mode %q, expected one of catalog, recent, tour", config.Mode)
	}
	if config.Mode != modeCatalog {
		result.Period = window.String()
	}

	cache := db.InsightCache(config.CacheTTL, clock)
	key := cacheKey(config)
	cached, ok, err := cache.Get(key)
	if err != nil {
		return result, err
	}
	if ok {
		result.Ranked = cached
		result.Cached = true
		return result, nil
	}

	if config.Mode == modeCatalog {
		songs, err := db.GetSongs()
		if err != nil {
			return result, err
		}
		records := make([]insights.CatalogRecord, 0, len(songs))
		for _, s := range songs {
			lastPlayed := s.LastPlayed
			if lastPlayed == "" {
				lastPlayed = s.Debut
			}
			records = append(records, insights.CatalogRecord{
				Song:               s.Name,
				TimesPlayedAllTime: s.TimesPlayed,
				LastPlayedOrDebut:  lastPlayed,
			})
		}
		result.Ranked = insights.FromCatalog(records, config.EstimatedTotalShows)
	} else {
		shards, err := loadShards(db, window)
		if err != nil {
			return result, err
		}
		tally := insights.TallyParallel(shards)
		result.Shows = tally.Shows()
		result.Ranked = tally.Insights(config.Thresholds)
	}

	if err := cache.Put(key, result.Ranked); err != nil {
		return result, err
	}
	return result, nil
}

// loadShards reads the window one calendar year at a time and parses each
// stored setlist.
func loadShards(db *store.Store, window dateRange) ([][]setlist.Show, error) {
	var shards [][]setlist.Show
	for _, r := range yearShards(window) {
		stored, err := db.GetShowsInRange(r.Start.Format(dateFormat), r.End.Format(dateFormat))
		if err != nil {
			return nil, fmt.Errorf("loading shows for %s: %w", r, err)
		}
		shows := make([]setlist.Show, 0, len(stored))
		for _, s := range stored {
			shows = append(shows, setlist.Show{Date: s.Date, Setlist: setlist.Parse(s.SetlistData)})
		}
		shards = append(shards, shows)
	}
	return shards, nil
}
