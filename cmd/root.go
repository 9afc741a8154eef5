/*
Copyright © 2026 The Babelmark Authors

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
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "babelmark",
	Short: "Machine translation quality benchmark",
	Long: `Babelmark sends the same source text to several translation providers in
parallel, scores each output against a battery of quality metrics, and fuses
the metrics into a single comparable ranking.

Supported providers: openai, local (OpenAI-compatible endpoint), deepl, google

Use "babelmark run --help" to benchmark a text from the command line, or
"babelmark serve" to expose the HTTP API.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (YAML)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
