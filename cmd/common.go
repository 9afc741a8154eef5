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
	"log/slog"
	"os"
	"path/filepath"

	"github.com/babelmark/babelmark/internal/config"
	"github.com/babelmark/babelmark/internal/detector"
	"github.com/babelmark/babelmark/internal/embedding"
	"github.com/babelmark/babelmark/internal/evaluation"
	"github.com/babelmark/babelmark/internal/orchestrator"
	"github.com/babelmark/babelmark/internal/store"
)

// app holds the wired core: config, store, metric registry, and engine.
type app struct {
	cfg    *config.Config
	store  *store.Store
	engine *orchestrator.Engine
	logger *slog.Logger
}

// buildApp loads configuration and wires the evaluation engine, shared
// detector and embedder, store, and orchestrator.
func buildApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	embedder := embedding.Shared(cfg.Embedding.BaseURL, cfg.Embedding.Model)
	registry := evaluation.NewRegistry(cfg.Metrics, detector.New(), embedder, logger)

	engine := orchestrator.New(orchestrator.Config{
		CallTimeout:   cfg.Limits.ProviderTimeout,
		MaxTextLength: cfg.Limits.MaxTextLength,
	}, registry, db, logger)

	return &app{cfg: cfg, store: db, engine: engine, logger: logger}, nil
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}
