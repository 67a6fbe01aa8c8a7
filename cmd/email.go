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
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/setlist-tools/internal/insights"
	"github.com/ademuri/setlist-tools/internal/store"
)

type SendEmailConfig struct {
	DbPath         string
	From           string
	To             string
	Date           time.Time
	Months         int
	Top            int
	CacheTTL       time.Duration
	DryRun         bool
	SendgridAPIKey string
}

var emailCmd = &cobra.Command{
	Use:   "email <address> [date]",
	Short: "Sends a prediction report",
	Long: `Emails the recent and tour song rankings for the show on [date] (default
today) using SendGrid.`,
	Args: cobra.RangeArgs(1, 2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		var ds string
		if len(args) == 2 {
			ds = args[1]
		}
		date, err := parseShowDate(ds, time.Now())
		if err != nil {
			fmt.Printf("Error parsing date: %v\n", err)
			os.Exit(1)
		}

		months, _ := cmd.Flags().GetInt("months")
		top, _ := cmd.Flags().GetInt("top")
		ttl, _ := cmd.Flags().GetDuration("cache-ttl")

		config := SendEmailConfig{
			DbPath:         viper.GetString("database"),
			From:           viper.GetString("from"),
			To:             args[0],
			Date:           date,
			Months:         months,
			Top:            top,
			CacheTTL:       ttl,
			DryRun:         viper.GetBool("dryRun"),
			SendgridAPIKey: viper.GetString("sendgrid_api_key"),
		}
		if err := sendEmail(config); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	var dryRun bool
	emailCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dryRun", emailCmd.Flags().Lookup("dry_run"))

	emailCmd.Flags().Int("months", 3, "Length of the recent window")
	emailCmd.Flags().Int("top", 20, "Number of songs per table")
	emailCmd.Flags().Duration("cache-ttl", 24*time.Hour, "How long computed insights are reused, 0 to disable")
}

func sendEmail(config SendEmailConfig) error {
	db, err := openStore(config.DbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	subject, htmlBody, plainBody, err := generateEmailContent(db, config, store.SystemClock{})
	if err != nil {
		return err
	}

	if config.DryRun {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, plainBody)
		return nil
	}

	if config.SendgridAPIKey == "" {
		return fmt.Errorf("sendgrid_api_key must be set in order to send emails")
	}

	from := mail.NewEmail("setlist-tools", config.From)
	to := mail.NewEmail(config.To, config.To)
	message := mail.NewSingleEmail(from, subject, to, plainBody, htmlBody)
	client := sendgrid.NewSendClient(config.SendgridAPIKey)
	resp, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("sendEmail: SendGrid returned %d: %s", resp.StatusCode, resp.Body)
	}

	fmt.Printf("Sent report for %s to %s\n", config.Date.Format(dateFormat), config.To)
	return nil
}

func generateEmailContent(db *store.Store, config SendEmailConfig, clock store.Clock) (subject string, htmlBody string, plainBody string, err error) {
	date := config.Date.Format(dateFormat)
	subject = fmt.Sprintf("Setlist predictions for %s", date)

	htmlOut := new(strings.Builder)
	plainOut := new(strings.Builder)
	htmlOut.WriteString(`
<html>
  <head>
<style>
td {
  padding: 0.1em 0.2em;
}
table, th, td {
  border: 1px solid black;
  border-collapse: collapse;
}
</style>
  </head>
  <body>
`)

	sections := []struct {
		title  string
		config InsightsConfig
	}{
		{"Recent shows", InsightsConfig{Mode: modeRecent, Months: config.Months}},
		{"Last ten years", InsightsConfig{Mode: modeTour}},
	}
	for _, section := range sections {
		c := section.config
		c.Target = config.Date
		c.Thresholds = thresholdsFor(c.Mode, -1, -1)
		c.CacheTTL = config.CacheTTL

		result, err := computeInsights(db, c, clock)
		if err != nil {
			return "", "", "", fmt.Errorf("computing %s insights: %w", c.Mode, err)
		}
		analysis := insightsAnalysis(insights.Top(result.Ranked, config.Top), result.summary())

		fmt.Fprintf(htmlOut, "<div>\n<h2>%s for %s:</h2>\n", section.title, date)
		htmlOut.WriteString(analysis.HTML())
		htmlOut.WriteString("</div>\n")

		fmt.Fprintf(plainOut, "%s for %s:\n", section.title, date)
		if len(result.Ranked) == 0 {
			plainOut.WriteString("Nothing found.\n")
		}
		plainOut.WriteString(analysis.String())
		plainOut.WriteString("\n")
	}
	htmlOut.WriteString("  </body>\n</html>\n")

	return subject, htmlOut.String(), plainOut.String(), nil
}
