// Package evaluation runs the enabled metrics over one translation and
// fuses their scores into a single overall quality score with provenance.
package evaluation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/babelmark/babelmark/internal/benchmark"
	"github.com/babelmark/babelmark/internal/config"
	"github.com/babelmark/babelmark/internal/detector"
	"github.com/babelmark/babelmark/internal/embedding"
	"github.com/babelmark/babelmark/internal/metrics"
)

type entry struct {
	metric metrics.Metric
	weight float64
}

// Registry holds the enabled metrics in a fixed order. The order is stable
// across evaluations so repeated runs yield identical metric sequences.
type Registry struct {
	entries []entry
	logger  *slog.Logger
}

// NewRegistry wires the metric battery from configuration. det and embedder
// are shared read-only resources; pass a nil embedder to disable the
// embedding-based metrics regardless of configuration.
func NewRegistry(cfg config.MetricsConfig, det *detector.Detector, embedder embedding.Embedder, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{logger: logger}

	add := func(mc config.MetricConfig, m metrics.Metric) {
		if mc.Enabled && mc.Weight > 0 {
			r.entries = append(r.entries, entry{metric: m, weight: mc.Weight})
		}
	}

	add(cfg.LanguageDetection, metrics.NewLanguageDetection(det, cfg.ConfidenceFloor))
	add(cfg.LengthRatio, metrics.NewLengthRatio(cfg.LengthRatioMin, cfg.LengthRatioMax))
	add(cfg.Repetition, metrics.NewRepetition(cfg.RepetitionThreshold))
	add(cfg.Preservation, metrics.NewPreservation())
	if embedder != nil {
		add(cfg.Semantic, metrics.NewSemanticSimilarity(embedder))
	}
	add(cfg.BLEU, metrics.NewBLEU())
	add(cfg.ChrF, metrics.NewChrF())
	if embedder != nil {
		add(cfg.ReferenceSim, metrics.NewReferenceSimilarity(embedder))
	}

	return r
}

// Len returns the number of registered metrics.
func (r *Registry) Len() int { return len(r.entries) }

// Evaluate scores one translation with every applicable metric and fuses the
// results. A metric that errors or panics is excluded from fusion for this
// evaluation only; if nothing remains applicable the breakdown is marked as
// evaluation-failed rather than defaulting to a fabricated score.
func (r *Registry) Evaluate(ctx context.Context, in metrics.Input) benchmark.ScoreBreakdown {
	var (
		results  []benchmark.MetricResult
		warnings []string
	)

	for _, e := range r.entries {
		if !e.metric.Applicable(in) {
			continue
		}

		eval, err := safeEvaluate(ctx, e.metric, in)
		if err != nil {
			r.logger.Warn("metric excluded from fusion",
				"metric", e.metric.Name(), "error", err)
			continue
		}

		results = append(results, benchmark.MetricResult{
			Name:    e.metric.Name(),
			Score:   eval.Score,
			Weight:  e.weight,
			Details: eval.Details,
		})
		if eval.Warning != "" {
			warnings = append(warnings, fmt.Sprintf("%s: %s", e.metric.Name(), eval.Warning))
		}
	}

	return fuse(results, warnings)
}

// safeEvaluate shields the engine from a misbehaving metric: a panic is
// converted into an error so only that metric's contribution is lost.
func safeEvaluate(ctx context.Context, m metrics.Metric, in metrics.Input) (eval metrics.Evaluation, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("metric %s panicked: %v", m.Name(), rec)
		}
	}()
	return m.Evaluate(ctx, in)
}
