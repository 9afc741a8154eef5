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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/babelmark/babelmark/internal/benchmark"
)

var (
	runText      string
	runInputFile string
	runSource    string
	runTarget    string
	runReference string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Benchmark a text against the configured providers",
	Long: `Send one source text to every provider configured under "providers:" in
the config file, evaluate each result, and print the ranking.

The run is persisted; use "babelmark runs show <id>" to revisit it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := runText
		if runInputFile != "" {
			data, err := os.ReadFile(runInputFile)
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}
			text = string(data)
		}

		app, err := buildApp(configPath)
		if err != nil {
			return err
		}
		defer app.Close()

		if len(app.cfg.Providers) == 0 {
			return fmt.Errorf("no providers configured; add a providers section to the config file")
		}

		req := benchmark.TranslationRequest{
			Text:       text,
			TargetLang: runTarget,
			SourceLang: runSource,
			Reference:  runReference,
			Providers:  app.cfg.Providers,
		}

		run, err := app.engine.Execute(cmd.Context(), req)
		if err != nil {
			if run == nil {
				return err
			}
			// The run was computed but could not be saved; still show it.
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}

		printRun(run)
		return nil
	},
}

func printRun(run *benchmark.Run) {
	if run.ID != "" {
		fmt.Printf("Run %s\n\n", run.ID)
	}

	if len(run.Summary.Rankings) == 0 {
		fmt.Println("All providers failed.")
	} else {
		fmt.Printf("%-5s %-12s %-24s %8s %10s\n", "Rank", "Provider", "Model", "Score", "Latency")
		for _, r := range run.Summary.Rankings {
			fmt.Printf("%-5d %-12s %-24s %8.1f %8dms\n", r.Rank, r.Provider, r.Model, r.Score, r.LatencyMS)
		}
		fmt.Println()
	}

	for _, result := range run.Results {
		o := result.Outcome
		if o.Failed() {
			fmt.Printf("[%s %s] failed: %s\n", o.Provider, o.Model, o.Error)
			continue
		}
		fmt.Printf("[%s %s] %s\n", o.Provider, o.Model, o.OutputText)
		if result.Evaluation != nil && result.Evaluation.Explanation != "" {
			fmt.Printf("  %s\n", result.Evaluation.Explanation)
		}
		for _, w := range warningsOf(result) {
			fmt.Printf("  warning: %s\n", w)
		}
	}
}

func warningsOf(result benchmark.ProviderReport) []string {
	if result.Evaluation == nil {
		return nil
	}
	return result.Evaluation.Warnings
}

func init() {
	runCmd.Flags().StringVarP(&runText, "text", "t", "", "source text to translate")
	runCmd.Flags().StringVarP(&runInputFile, "input", "i", "", "read the source text from a file")
	runCmd.Flags().StringVarP(&runSource, "source", "s", "auto", "source language code (auto to detect)")
	runCmd.Flags().StringVarP(&runTarget, "target", "T", "", "target language code (required)")
	runCmd.Flags().StringVarP(&runReference, "reference", "r", "", "reference translation for reference-based metrics")
	runCmd.MarkFlagRequired("target")

	rootCmd.AddCommand(runCmd)
}
