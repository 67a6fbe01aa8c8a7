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
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/setlist-tools/internal/phishnet"
	"github.com/ademuri/setlist-tools/internal/scoring"
	"github.com/ademuri/setlist-tools/internal/setlist"
	"github.com/ademuri/setlist-tools/internal/store"
)

type ScoreConfig struct {
	DbPath      string
	PicksPath   string
	Date        time.Time
	SetlistText string
	Yaml        bool
}

var scoreCmd = &cobra.Command{
	Use:   "score <picks-file> <date>",
	Short: "Scores players' picks against a show",
	Long: `Scores every player in <picks-file> (yaml or toml) against the setlist of the
show on <date>. The setlist comes from --setlist if given, then phish.net when
an API key is configured, then the local database.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		date, err := parseShowDate(args[1], time.Now())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		text, _ := cmd.Flags().GetString("setlist")
		asYaml, _ := cmd.Flags().GetBool("yaml")

		config := ScoreConfig{
			DbPath:      viper.GetString("database"),
			PicksPath:   args[0],
			Date:        date,
			SetlistText: text,
			Yaml:        asYaml,
		}
		if err := runScore(cmd.Context(), config, newClient(), os.Stdout); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("setlist", "", "Raw setlist text to score against")
	scoreCmd.Flags().Bool("yaml", false, "Print the scored players as yaml")
}

func runScore(ctx context.Context, config ScoreConfig, client *phishnet.Client, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	players, err := loadPicks(config.PicksPath)
	if err != nil {
		return err
	}
	for _, p := range players {
		for _, problem := range scoring.Validate(p.Picks) {
			fmt.Fprintf(os.Stderr, "Warning: %s: %s\n", p.Name, problem)
		}
	}

	db, err := openStore(config.DbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	actual, source, err := resolveSetlist(ctx, config, db, client)
	if err != nil {
		return err
	}

	board := scoring.ScorePlayers(players, actual)
	if config.Yaml {
		return encodeYaml(out, board)
	}

	fmt.Fprintf(out, "Setlist for %s (from %s):\n", config.Date.Format(dateFormat), source)
	fmt.Fprint(out, setlistAnalysis(actual).String())
	fmt.Fprintln(out)
	fmt.Fprint(out, leaderboardAnalysis(board).String())
	fmt.Fprintln(out)
	fmt.Fprint(out, breakdownAnalysis(board).String())
	return nil
}

// resolveSetlist finds the actual setlist for config.Date and names where it
// came from.
func resolveSetlist(ctx context.Context, config ScoreConfig, db *store.Store, client *phishnet.Client) (setlist.Setlist, string, error) {
	if config.SetlistText != "" {
		return setlist.Parse(config.SetlistText), "--setlist", nil
	}

	date := config.Date.Format(dateFormat)
	if client != nil {
		actual, ok, err := client.Setlist(ctx, date)
		switch {
		case err != nil:
			fmt.Fprintf(os.Stderr, "Could not fetch setlist from phish.net, trying the database: %v\n", err)
		case ok:
			return actual, "phish.net", nil
		}
	}

	shows, err := db.GetShowsOnDate(date)
	if err != nil {
		return setlist.Empty(), "", err
	}
	for _, show := range shows {
		actual := setlist.Parse(show.SetlistData)
		if !actual.IsEmpty() {
			return actual, "database", nil
		}
	}
	return setlist.Empty(), "", fmt.Errorf("no setlist found for %s", date)
}
