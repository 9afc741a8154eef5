package metrics

import (
	"context"
	"fmt"
	"strings"

	"github.com/babelmark/babelmark/internal/detector"
)

// LanguageDetection verifies that the translated text is actually written in
// the requested target language. Score is 100 for a confident match,
// proportionally reduced for a low-confidence match, and 0 for a mismatch.
type LanguageDetection struct {
	det             *detector.Detector
	confidenceFloor float64
}

func NewLanguageDetection(det *detector.Detector, confidenceFloor float64) *LanguageDetection {
	if confidenceFloor <= 0 {
		confidenceFloor = 0.8
	}
	return &LanguageDetection{det: det, confidenceFloor: confidenceFloor}
}

func (m *LanguageDetection) Name() string { return "language_detection" }

func (m *LanguageDetection) Applicable(Input) bool { return true }

func (m *LanguageDetection) Evaluate(_ context.Context, in Input) (Evaluation, error) {
	if strings.TrimSpace(in.Translated) == "" {
		return Evaluation{Score: 0, Warning: "empty translation"}, nil
	}

	detected, confidence, ok := m.det.DetectWithConfidence(in.Translated)
	if !ok {
		// Undetectable language is treated as neutral rather than a failure.
		return Evaluation{
			Score:   50,
			Details: map[string]any{"detected_lang": nil, "confidence": 0.0},
			Warning: "could not determine output language",
		}, nil
	}

	target := primarySubtag(in.TargetLang)
	matches := strings.EqualFold(detected, target)

	var score float64
	var warning string
	switch {
	case matches && confidence >= m.confidenceFloor:
		score = 100
	case matches:
		score = confidence * 100
		warning = "low confidence in language detection"
	default:
		score = 0
		warning = fmt.Sprintf("language mismatch: expected %q, detected %q", target, detected)
	}

	return Evaluation{
		Score: score,
		Details: map[string]any{
			"detected_lang":  detected,
			"confidence":     confidence,
			"matches_target": matches,
		},
		Warning: warning,
	}, nil
}

// primarySubtag reduces a BCP 47 tag like "pt-BR" to its primary language
// subtag for comparison with detector output.
func primarySubtag(lang string) string {
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		return lang[:i]
	}
	return lang
}
