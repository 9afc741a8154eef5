package metrics

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// LengthRatio scores the character-count ratio between translation and
// source. The score peaks at ratio 1.0, stays in [50, 100] inside the
// acceptable band, and falls into [0, 50) outside it.
type LengthRatio struct {
	minRatio float64
	maxRatio float64
}

func NewLengthRatio(minRatio, maxRatio float64) *LengthRatio {
	if minRatio <= 0 {
		minRatio = 0.5
	}
	if maxRatio <= minRatio {
		maxRatio = 2.0
	}
	return &LengthRatio{minRatio: minRatio, maxRatio: maxRatio}
}

func (m *LengthRatio) Name() string { return "length_ratio" }

func (m *LengthRatio) Applicable(Input) bool { return true }

func (m *LengthRatio) Evaluate(_ context.Context, in Input) (Evaluation, error) {
	sourceLen := utf8.RuneCountInString(in.Source)
	targetLen := utf8.RuneCountInString(in.Translated)

	if sourceLen == 0 {
		return Evaluation{Score: 0, Warning: "empty source text"}, nil
	}
	if targetLen == 0 {
		return Evaluation{Score: 0, Warning: "empty translation"}, nil
	}

	ratio := float64(targetLen) / float64(sourceLen)

	var score float64
	if ratio >= m.minRatio && ratio <= m.maxRatio {
		if ratio < 1.0 {
			score = (ratio - m.minRatio) / (1.0 - m.minRatio) * 100
		} else if m.maxRatio > 1.0 {
			score = (m.maxRatio - ratio) / (m.maxRatio - 1.0) * 100
		} else {
			score = 100
		}
		if score < 50 {
			score = 50
		}
	} else {
		if ratio < m.minRatio {
			score = ratio / m.minRatio * 50
		} else {
			score = m.maxRatio / ratio * 50
		}
		score = clamp(score, 0, 50)
	}

	var warning string
	if ratio < m.minRatio {
		warning = fmt.Sprintf("unusual length ratio: translation too short (ratio %.2f)", ratio)
	} else if ratio > m.maxRatio {
		warning = fmt.Sprintf("unusual length ratio: translation too long (ratio %.2f)", ratio)
	}

	return Evaluation{
		Score: score,
		Details: map[string]any{
			"ratio":         ratio,
			"source_length": sourceLen,
			"target_length": targetLen,
		},
		Warning: warning,
	}, nil
}
