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

	"github.com/babelmark/babelmark/internal/report"
)

var (
	runsLimit    int
	runsOffset   int
	reportOutput string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Browse persisted benchmark runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(configPath)
		if err != nil {
			return err
		}
		defer app.Close()

		items, err := app.store.ListRuns(cmd.Context(), runsLimit, runsOffset)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		for _, item := range items {
			score := "-"
			if item.AvgScore != nil {
				score = fmt.Sprintf("%.1f", *item.AvgScore)
			}
			fmt.Printf("%s  %s  %s→%s  providers=%d  avg=%s  %q\n",
				item.ID,
				item.CreatedAt.Format("2006-01-02 15:04"),
				item.SourceLang, item.TargetLang,
				item.ProviderCount, score, item.TextPreview)
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one persisted run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(configPath)
		if err != nil {
			return err
		}
		defer app.Close()

		run, err := app.store.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		printRun(run)
		return nil
	},
}

var runsReportCmd = &cobra.Command{
	Use:   "report <run-id>",
	Short: "Render a persisted run as a markdown report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(configPath)
		if err != nil {
			return err
		}
		defer app.Close()

		run, err := app.store.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		md := report.Markdown(run)
		if reportOutput != "" {
			return os.WriteFile(reportOutput, md, 0644)
		}
		fmt.Print(string(md))
		return nil
	},
}

func init() {
	runsListCmd.Flags().IntVar(&runsLimit, "limit", 50, "maximum number of runs to list")
	runsListCmd.Flags().IntVar(&runsOffset, "offset", 0, "number of runs to skip")
	runsReportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "write the report to a file instead of stdout")

	runsCmd.AddCommand(runsListCmd, runsShowCmd, runsReportCmd)
	rootCmd.AddCommand(runsCmd)
}
