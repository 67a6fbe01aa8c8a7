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

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ademuri/setlist-tools/internal/phishnet"
	"github.com/ademuri/setlist-tools/internal/store"
)

var cfgFile string
var apiKey string
var baseURL string
var databasePath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "setlist-tools",
	Short: "Predicts and scores concert setlists",
	Long: `Keeps a local copy of show history from phish.net, ranks songs by how
likely they are to be played, and scores players' picks against the actual
setlist.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.setlist-tools.yaml)")

	rootCmd.PersistentFlags().StringVarP(
		&apiKey, "api_key", "", "", "phish.net API key")
	viper.BindPFlag("api_key", rootCmd.PersistentFlags().Lookup("api_key"))

	rootCmd.PersistentFlags().StringVar(
		&baseURL, "base_url", phishnet.DefaultBaseURL, "phish.net API base URL")
	viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base_url"))

	rootCmd.PersistentFlags().StringVarP(
		&databasePath, "database", "d", "./setlists.db", "Path to the SQLite database")
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))

	var sendgridAPIKey string
	rootCmd.PersistentFlags().StringVar(&sendgridAPIKey, "sendgrid_api_key", "", "SendGrid API key, used by email")
	viper.BindPFlag("sendgrid_api_key", rootCmd.PersistentFlags().Lookup("sendgrid_api_key"))

	var from string
	rootCmd.PersistentFlags().StringVar(&from, "from", "", "From email address")
	viper.BindPFlag("from", rootCmd.PersistentFlags().Lookup("from"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A missing .env file is fine.
	if err := godotenv.Load(); err == nil {
		fmt.Fprintln(os.Stderr, "Loaded environment from .env")
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".setlist-tools" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".setlist-tools")
	}

	// SETLIST_API_KEY, SETLIST_DATABASE, ...
	viper.SetEnvPrefix("setlist")
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

func openStore(dbPath string) (*store.Store, error) {
	db, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// newClient returns a phish.net client, or nil when no API key is configured.
func newClient() *phishnet.Client {
	key := viper.GetString("api_key")
	if key == "" {
		return nil
	}
	return phishnet.New(key, viper.GetString("base_url"))
}
