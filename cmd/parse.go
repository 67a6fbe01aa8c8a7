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
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ademuri/setlist-tools/internal/setlist"
)

var parseCmd = &cobra.Command{
	Use:   "parse [setlist text]",
	Short: "Parses raw setlist text",
	Long: `Splits text such as "Set 1: Wilson, Free > Sand Set 2: Ghost Encore: Tweezer Reprise"
into sets. Reads --file, or stdin when given "-".`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("file")
		asYaml, _ := cmd.Flags().GetBool("yaml")

		raw, err := readSetlistText(args, path, os.Stdin)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		if err := printSetlist(os.Stdout, setlist.Parse(raw), asYaml); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().String("file", "", "Read the setlist text from this file")
	parseCmd.Flags().Bool("yaml", false, "Print yaml instead of a table")
}

func readSetlistText(args []string, path string, stdin io.Reader) (string, error) {
	switch {
	case path != "":
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading setlist: %w", err)
		}
		return string(b), nil

	case len(args) == 1 && args[0] == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading setlist: %w", err)
		}
		return string(b), nil

	case len(args) == 1:
		return args[0], nil
	}
	return "", fmt.Errorf("Expected setlist text, --file, or - for stdin")
}

func printSetlist(out io.Writer, s setlist.Setlist, asYaml bool) error {
	if asYaml {
		return encodeYaml(out, s)
	}
	_, err := io.WriteString(out, setlistAnalysis(s).String())
	return err
}

func encodeYaml(out io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return encoder.Close()
}
