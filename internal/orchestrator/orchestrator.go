// Package orchestrator fans a translation request out to every configured
// provider, evaluates the settled outcomes, and assembles the Run aggregate.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/babelmark/babelmark/internal/benchmark"
	"github.com/babelmark/babelmark/internal/evaluation"
	"github.com/babelmark/babelmark/internal/metrics"
	"github.com/babelmark/babelmark/internal/provider"
)

// Store is the persistence capability the engine consumes. CreateRun assigns
// and returns the run identity.
type Store interface {
	CreateRun(ctx context.Context, run *benchmark.Run) (string, error)
}

type Config struct {
	// CallTimeout bounds each provider call independently. Generous by
	// default: local models can take minutes.
	CallTimeout   time.Duration
	MaxTextLength int
}

// Engine drives the run lifecycle: validate, dispatch, evaluate, rank,
// persist. It owns the in-flight Run until the store hands back an identity.
type Engine struct {
	cfg      Config
	registry *evaluation.Registry
	store    Store
	logger   *slog.Logger

	// newTranslator builds the vendor adapter for one configuration;
	// overridable in tests.
	newTranslator func(provider.Config) (provider.Translator, error)
}

func New(cfg Config, registry *evaluation.Registry, store Store, logger *slog.Logger) *Engine {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 2 * time.Minute
	}
	if cfg.MaxTextLength <= 0 {
		cfg.MaxTextLength = 5000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:           cfg,
		registry:      registry,
		store:         store,
		logger:        logger,
		newTranslator: provider.New,
	}
}

// Execute runs one complete benchmarking invocation. Provider and metric
// failures degrade only their own contribution; the only request-level
// failures are input validation and caller abandonment. When persistence
// fails, the computed Run is returned alongside the error so callers can
// still inspect it.
func (e *Engine) Execute(ctx context.Context, req benchmark.TranslationRequest) (*benchmark.Run, error) {
	if err := req.Validate(e.cfg.MaxTextLength); err != nil {
		return nil, err
	}

	e.logger.Info("run started",
		"providers", len(req.Providers),
		"target_lang", req.TargetLang,
		"text_length", len(req.Text))

	outcomes := e.dispatch(ctx, req)

	// The caller abandoned the request: calls were drained above, but the
	// run is not published or persisted.
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	results := e.evaluate(ctx, req, outcomes)

	run := &benchmark.Run{
		SourceText: req.Text,
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
		Reference:  req.Reference,
		Results:    results,
		Summary:    benchmark.Summarize(results),
		CreatedAt:  time.Now().UTC(),
	}

	if e.store != nil {
		id, err := e.store.CreateRun(ctx, run)
		if err != nil {
			return run, fmt.Errorf("run computed but not persisted: %w", err)
		}
		run.ID = id
	}

	e.logger.Info("run completed",
		"run_id", run.ID,
		"best_provider", run.Summary.BestProvider,
		"ranked", len(run.Summary.Rankings))

	return run, nil
}

// dispatch executes one provider call per configuration, all concurrently,
// each bounded by its own timeout. The returned slice has the same length
// and order as req.Providers; a timeout, transport error, or vendor error
// becomes a failure outcome without affecting siblings.
func (e *Engine) dispatch(ctx context.Context, req benchmark.TranslationRequest) []benchmark.ProviderOutcome {
	outcomes := make([]benchmark.ProviderOutcome, len(req.Providers))

	// Calls keep draining if the caller goes away, so vendor work (and
	// quota) already in flight is not wasted.
	callCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for i, cfg := range req.Providers {
		outcomes[i] = benchmark.ProviderOutcome{Provider: cfg.Type, Model: cfg.Model}

		translator, err := e.newTranslator(provider.Config{
			Type:        cfg.Type,
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Credentials: cfg.Credentials,
		})
		if err != nil {
			outcomes[i].Error = err.Error()
			continue
		}

		wg.Add(1)
		go func(i int, t provider.Translator) {
			defer wg.Done()
			outcomes[i] = e.call(callCtx, t, req)
		}(i, translator)
	}
	wg.Wait()

	return outcomes
}

func (e *Engine) call(ctx context.Context, t provider.Translator, req benchmark.TranslationRequest) benchmark.ProviderOutcome {
	outcome := benchmark.ProviderOutcome{Provider: t.Name(), Model: t.Model()}

	callCtx, cancel := context.WithTimeout(ctx, e.cfg.CallTimeout)
	defer cancel()

	start := time.Now()
	res, err := t.Translate(callCtx, req.Text, req.SourceLang, req.TargetLang)
	outcome.LatencyMS = time.Since(start).Milliseconds()

	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			outcome.Error = fmt.Sprintf("provider timed out after %s", e.cfg.CallTimeout)
		} else {
			outcome.Error = err.Error()
		}
		e.logger.Warn("provider call failed",
			"provider", t.Name(), "model", t.Model(), "error", outcome.Error)
		return outcome
	}

	outcome.OutputText = res.OutputText
	outcome.UsageTokens = res.UsageTokens
	return outcome
}

// evaluate scores every successful outcome. Evaluations are independent per
// outcome and run concurrently; failed outcomes get no breakdown.
func (e *Engine) evaluate(ctx context.Context, req benchmark.TranslationRequest, outcomes []benchmark.ProviderOutcome) []benchmark.ProviderReport {
	results := make([]benchmark.ProviderReport, len(outcomes))

	g, gctx := errgroup.WithContext(ctx)
	for i, outcome := range outcomes {
		results[i] = benchmark.ProviderReport{Outcome: outcome}
		if outcome.Failed() {
			continue
		}

		in := metrics.Input{
			Source:     req.Text,
			Translated: outcome.OutputText,
			TargetLang: req.TargetLang,
			SourceLang: req.SourceLang,
			Reference:  req.Reference,
		}
		g.Go(func() error {
			breakdown := e.registry.Evaluate(gctx, in)
			results[i].Evaluation = &breakdown
			return nil
		})
	}
	_ = g.Wait()

	return results
}
