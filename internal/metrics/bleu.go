package metrics

import (
	"context"
	"math"
	"strings"
)

// BLEU is the classic n-gram overlap reference metric: clipped modified
// precision over word n-grams of order 1-4, combined by geometric mean and
// scaled by a brevity penalty. Applicable only when a reference translation
// is supplied.
type BLEU struct {
	maxOrder int
}

func NewBLEU() *BLEU { return &BLEU{maxOrder: 4} }

func (m *BLEU) Name() string { return "bleu" }

func (m *BLEU) Applicable(in Input) bool { return in.Reference != "" }

func (m *BLEU) Evaluate(_ context.Context, in Input) (Evaluation, error) {
	candidate := strings.Fields(strings.ToLower(in.Translated))
	reference := strings.Fields(strings.ToLower(in.Reference))

	if len(candidate) == 0 || len(reference) == 0 {
		return Evaluation{Score: 0, Warning: "empty translation or reference"}, nil
	}

	precisions := make([]float64, 0, m.maxOrder)
	for n := 1; n <= m.maxOrder; n++ {
		if len(candidate) < n {
			break
		}
		precisions = append(precisions, clippedPrecision(candidate, reference, n))
	}

	var geoMean float64
	if len(precisions) > 0 {
		logSum := 0.0
		positive := true
		for _, p := range precisions {
			if p == 0 {
				positive = false
				break
			}
			logSum += math.Log(p)
		}
		if positive {
			geoMean = math.Exp(logSum / float64(len(precisions)))
		}
	}

	bp := 1.0
	if len(candidate) < len(reference) {
		bp = math.Exp(1.0 - float64(len(reference))/float64(len(candidate)))
	}

	score := bp * geoMean * 100

	return Evaluation{
		Score: score,
		Details: map[string]any{
			"precisions":      precisions,
			"brevity_penalty": bp,
		},
	}, nil
}

// clippedPrecision counts candidate n-grams, clipping each n-gram's credit
// at its frequency in the reference.
func clippedPrecision(candidate, reference []string, n int) float64 {
	candCounts := ngramCounts(candidate, n)
	refCounts := ngramCounts(reference, n)

	total := 0
	matched := 0
	for gram, count := range candCounts {
		total += count
		if rc, ok := refCounts[gram]; ok {
			if count < rc {
				matched += count
			} else {
				matched += rc
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}

func ngramCounts(words []string, n int) map[string]int {
	counts := make(map[string]int)
	for i := 0; i+n <= len(words); i++ {
		counts[strings.Join(words[i:i+n], " ")]++
	}
	return counts
}
