package evaluation

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/babelmark/babelmark/internal/benchmark"
)

// poorBand is the overall score below which a quality warning is derived.
const poorBand = 60.0

// fuse combines applicable metric results into one overall score using a
// renormalized weighted average: an excluded metric contributes neither
// numerator nor denominator.
func fuse(results []benchmark.MetricResult, warnings []string) benchmark.ScoreBreakdown {
	totalWeight := 0.0
	weightedSum := 0.0
	for _, m := range results {
		weightedSum += m.Score * m.Weight
		totalWeight += m.Weight
	}

	if len(results) == 0 || totalWeight <= 0 {
		return benchmark.ScoreBreakdown{
			Failed:      true,
			Metrics:     results,
			Warnings:    dedupe(warnings),
			Explanation: "Evaluation failed: no applicable metrics.",
		}
	}

	overall := weightedSum / totalWeight

	if overall < poorBand {
		warnings = append(warnings, "overall quality falls in the poor band")
	}

	return benchmark.ScoreBreakdown{
		Overall:     overall,
		Metrics:     results,
		Warnings:    dedupe(warnings),
		Explanation: explain(results, overall),
	}
}

// explain renders a short human-readable verdict: a quality label and the
// top three metrics by contribution (weight x score).
func explain(results []benchmark.MetricResult, overall float64) string {
	var quality string
	switch {
	case overall >= 90:
		quality = "Excellent"
	case overall >= 75:
		quality = "Good"
	case overall >= 60:
		quality = "Fair"
	default:
		quality = "Poor"
	}

	sorted := make([]benchmark.MetricResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score*sorted[i].Weight > sorted[j].Score*sorted[j].Weight
	})
	if len(sorted) > 3 {
		sorted = sorted[:3]
	}

	titler := cases.Title(language.English)
	names := make([]string, 0, len(sorted))
	for _, m := range sorted {
		names = append(names, titler.String(strings.ReplaceAll(m.Name, "_", " ")))
	}

	return fmt.Sprintf("%s translation quality (score: %.1f/100). Top factors: %s.",
		quality, overall, strings.Join(names, ", "))
}

func dedupe(warnings []string) []string {
	if len(warnings) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(warnings))
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
