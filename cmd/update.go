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
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/setlist-tools/internal/phishnet"
	"github.com/ademuri/setlist-tools/internal/store"
)

type UpdateConfig struct {
	DbPath string
	Years  []int
	Force  bool
	Now    time.Time
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update [year...]",
	Short: "Fetches show history from phish.net",
	Long: `Stores shows and the song catalog in a local SQLite database.
  With no years, fetches the last ten years plus the current one. Years
  fetched in the past 24 hours are skipped unless --force is given.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("api_key") == "" {
			return fmt.Errorf("required flag(s) \"api_key\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		now := time.Now()
		years := defaultUpdateYears(now)
		if len(args) > 0 {
			years = nil
			for _, arg := range args {
				year, err := strconv.Atoi(arg)
				if err != nil || year < 1983 || year > now.Year()+1 {
					fmt.Printf("Invalid year: %q\n", arg)
					os.Exit(1)
				}
				years = append(years, year)
			}
		}

		config := UpdateConfig{
			DbPath: viper.GetString("database"),
			Years:  years,
			Force:  viper.GetBool("force"),
			Now:    now,
		}

		err := updateDatabase(cmd.Context(), config, newClient())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)

	var force bool
	updateCmd.Flags().BoolVarP(&force, "force", "f", false, "Fetch every year, even ones updated recently (idempotent)")
	viper.BindPFlag("force", updateCmd.Flags().Lookup("force"))
}

func updateDatabase(ctx context.Context, config UpdateConfig, client *phishnet.Client) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if client == nil {
		return fmt.Errorf("no phish.net API key configured")
	}

	db, err := openStore(config.DbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, year := range config.Years {
		lastUpdated, err := db.GetYearUpdated(year)
		if err != nil {
			return err
		}
		if !lastUpdated.IsZero() && config.Now.Sub(lastUpdated) < 24*time.Hour && !config.Force {
			fmt.Printf("%d was already updated in the past 24 hours\n", year)
			continue
		}

		shows, err := client.ShowsByYear(ctx, year)
		if err != nil {
			// One missing year should not abort the rest.
			fmt.Printf("Skipping %d: %v\n", year, err)
			continue
		}

		imports := make([]store.ShowImport, 0, len(shows))
		withSetlist := 0
		for _, show := range shows {
			imports = append(imports, store.ShowImport{
				Date:        show.Date,
				Venue:       show.Venue,
				Location:    show.Location,
				SetlistData: show.SetlistData,
			})
			if show.SetlistData != "" {
				withSetlist++
			}
		}
		if err := db.AddShows(imports); err != nil {
			return fmt.Errorf("storing shows for %d: %w", year, err)
		}
		if err := db.ClearInsightCache(); err != nil {
			return err
		}
		if err := db.SetYearUpdated(year, config.Now); err != nil {
			return err
		}
		fmt.Printf("%d: stored %d shows (%d with setlists)\n", year, len(shows), withSetlist)
	}

	fmt.Println("Updating song catalog...")
	songs, err := client.Songs(ctx)
	if err != nil {
		return fmt.Errorf("updating song catalog: %w", err)
	}
	if err := db.ReplaceSongs(songImports(songs)); err != nil {
		return err
	}
	if err := db.ClearInsightCache(); err != nil {
		return err
	}
	fmt.Printf("Stored %d songs\n", len(songs))

	if skipped := client.Skipped(); skipped > 0 {
		fmt.Printf("Skipped %d malformed records\n", skipped)
	}
	return nil
}

func songImports(songs []phishnet.SongRecord) []store.SongImport {
	imports := make([]store.SongImport, 0, len(songs))
	for _, s := range songs {
		imports = append(imports, store.SongImport{
			Name:        s.Name,
			TimesPlayed: s.TimesPlayed,
			LastPlayed:  s.LastPlayed,
			Debut:       s.Debut,
		})
	}
	return imports
}
