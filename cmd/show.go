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
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/setlist-tools/internal/phishnet"
	"github.com/ademuri/setlist-tools/internal/setlist"
)

var showCmd = &cobra.Command{
	Use:   "show <date> [date]",
	Short: "Prints stored shows",
	Long: `With a single day, prints the venue and setlist of that show. With a year,
a month, or a start and end date, lists the stored shows in that range.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runShow(cmd.Context(), viper.GetString("database"), args, newClient(), os.Stdout); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(ctx context.Context, dbPath string, args []string, client *phishnet.Client, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	start, end, err := parseDateRangeFromArgs(args)
	if err != nil {
		return err
	}

	db, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	shows, err := db.GetShowsInRange(start.Format(dateFormat), end.Format(dateFormat))
	if err != nil {
		return err
	}

	singleDay := len(args) == 1 && dayRe.MatchString(args[0])
	if !singleDay {
		results := [][]string{{"#", "Date", "Venue", "Location", "Songs"}}
		for i, show := range shows {
			results = append(results, []string{
				strconv.Itoa(i + 1),
				show.Date,
				show.Venue,
				show.Location,
				strconv.Itoa(len(setlist.Parse(show.SetlistData).Songs())),
			})
		}
		a := Analysis{results: results, summary: fmt.Sprintf("%d shows", len(shows))}
		fmt.Fprint(out, a.String())
		return nil
	}

	date := start.Format(dateFormat)
	fetched := false
	if client != nil {
		venue, ok, err := client.ShowDetails(ctx, date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not fetch show details: %v\n", err)
		} else if ok {
			fmt.Fprintf(out, "%s: %s\n", date, venue)
			fetched = true
		}
	}

	if len(shows) == 0 {
		fmt.Fprintf(out, "No stored show on %s\n", date)
		return nil
	}
	for _, show := range shows {
		// Stored venue when the provider had nothing.
		if !fetched {
			fmt.Fprintf(out, "%s: %s\n", show.Date, phishnet.Venue{Name: show.Venue, Location: show.Location})
		}
		fmt.Fprint(out, setlistAnalysis(setlist.Parse(show.SetlistData)).String())
	}
	return nil
}
