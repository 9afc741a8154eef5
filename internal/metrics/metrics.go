// Package metrics implements the quality metrics scored against each
// translation. Every metric is a pure function of its input: no state is
// mutated across evaluations, so metrics for different providers within one
// run can execute independently.
package metrics

import "context"

// Input carries everything a metric may inspect. Reference is empty when no
// gold-standard translation was supplied.
type Input struct {
	Source     string
	Translated string
	TargetLang string
	SourceLang string
	Reference  string
}

// Evaluation is the raw output of a single metric: a score in [0, 100],
// optional structured details, and an optional threshold-breach warning.
type Evaluation struct {
	Score   float64
	Details map[string]any
	Warning string
}

// Metric scores one translation. Applicable reports whether the metric
// participates in fusion for the given input; an inapplicable metric is
// excluded entirely, not zero-scored.
type Metric interface {
	Name() string
	Applicable(in Input) bool
	Evaluate(ctx context.Context, in Input) (Evaluation, error)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
