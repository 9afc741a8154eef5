package metrics

import (
	"context"
	"fmt"
	"strings"
)

// Repetition detects degenerate, repetitive output by scanning word n-grams
// of order 2 through maxNgramSize. The repetition ratio is the worst ratio
// across orders; the score is its inverse on a 0-100 scale.
type Repetition struct {
	maxNgramSize int
	threshold    float64
}

func NewRepetition(threshold float64) *Repetition {
	if threshold <= 0 {
		threshold = 0.3
	}
	return &Repetition{maxNgramSize: 4, threshold: threshold}
}

func (m *Repetition) Name() string { return "repetition" }

func (m *Repetition) Applicable(Input) bool { return true }

func (m *Repetition) Evaluate(_ context.Context, in Input) (Evaluation, error) {
	if strings.TrimSpace(in.Translated) == "" {
		return Evaluation{Score: 0, Warning: "empty translation"}, nil
	}

	words := strings.Fields(strings.ToLower(in.Translated))

	ngramScores := make(map[string]float64)
	maxRepetition := 0.0

	for n := 2; n <= m.maxNgramSize; n++ {
		if len(words) < n {
			break
		}
		rep := repetitionRatio(words, n)
		ngramScores[fmt.Sprintf("%d-gram", n)] = rep
		if rep > maxRepetition {
			maxRepetition = rep
		}
	}

	score := (1.0 - maxRepetition) * 100

	var warning string
	if maxRepetition > m.threshold {
		warning = fmt.Sprintf("high repetition detected (ratio %.2f)", maxRepetition)
	}

	return Evaluation{
		Score: score,
		Details: map[string]any{
			"repetition_ratio": maxRepetition,
			"ngram_ratios":     ngramScores,
		},
		Warning: warning,
	}, nil
}

// repetitionRatio combines the duplicate fraction (1 - unique/total) with a
// frequency factor that penalizes a single n-gram dominating the text.
func repetitionRatio(words []string, n int) float64 {
	total := len(words) - n + 1
	if total <= 0 {
		return 0
	}

	counts := make(map[string]int, total)
	for i := 0; i < total; i++ {
		counts[strings.Join(words[i:i+n], " ")]++
	}

	ratio := 1.0 - float64(len(counts))/float64(total)

	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount > 1 {
		freq := float64(maxCount) / float64(total)
		if freq > 1 {
			freq = 1
		}
		if freq > ratio {
			ratio = freq
		}
	}

	return ratio
}
