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
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/babelmark/babelmark/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the benchmark HTTP API",
	Long: `Start the HTTP API: submit benchmark runs, fetch persisted runs by id,
and browse recent runs with pagination.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(configPath)
		if err != nil {
			return err
		}
		defer app.Close()

		srv, err := server.New(app.cfg.Server.Port, app.engine, app.store, app.logger)
		if err != nil {
			return fmt.Errorf("failed to build server: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return srv.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
