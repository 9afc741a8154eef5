package metrics

import (
	"context"
	"strings"
)

// ChrF is the character n-gram F-score reference metric (orders 1-6, recall
// weighted by beta=2). It is tokenization-free and therefore robust for
// morphologically rich target languages. Applicable only with a reference.
type ChrF struct {
	maxOrder int
	beta     float64
}

func NewChrF() *ChrF { return &ChrF{maxOrder: 6, beta: 2.0} }

func (m *ChrF) Name() string { return "chrf" }

func (m *ChrF) Applicable(in Input) bool { return in.Reference != "" }

func (m *ChrF) Evaluate(_ context.Context, in Input) (Evaluation, error) {
	candidate := []rune(stripSpaces(strings.ToLower(in.Translated)))
	reference := []rune(stripSpaces(strings.ToLower(in.Reference)))

	if len(candidate) == 0 || len(reference) == 0 {
		return Evaluation{Score: 0, Warning: "empty translation or reference"}, nil
	}

	var sumF float64
	orders := 0

	for n := 1; n <= m.maxOrder; n++ {
		if len(candidate) < n && len(reference) < n {
			break
		}
		candCounts := charNgramCounts(candidate, n)
		refCounts := charNgramCounts(reference, n)

		matched, candTotal, refTotal := 0, 0, 0
		for gram, count := range candCounts {
			candTotal += count
			if rc, ok := refCounts[gram]; ok {
				if count < rc {
					matched += count
				} else {
					matched += rc
				}
			}
		}
		for _, count := range refCounts {
			refTotal += count
		}

		if candTotal == 0 || refTotal == 0 {
			orders++
			continue
		}

		precision := float64(matched) / float64(candTotal)
		recall := float64(matched) / float64(refTotal)

		if precision+recall > 0 {
			b2 := m.beta * m.beta
			sumF += (1 + b2) * precision * recall / (b2*precision + recall)
		}
		orders++
	}

	var score float64
	if orders > 0 {
		score = sumF / float64(orders) * 100
	}

	return Evaluation{
		Score:   score,
		Details: map[string]any{"orders": orders},
	}, nil
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func charNgramCounts(runes []rune, n int) map[string]int {
	counts := make(map[string]int)
	for i := 0; i+n <= len(runes); i++ {
		counts[string(runes[i:i+n])]++
	}
	return counts
}
