// Package detector wraps the lingua-go language identifier behind the
// narrow capability the evaluation metrics need.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector over all languages lingua supports. Construction is
// expensive; callers should reuse the instance.
func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		Build()

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if text == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the lowercase ISO 639-1 code of the most likely language.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// DetectWithConfidence returns the most likely language as a lowercase
// ISO 639-1 code together with lingua's confidence for it. ok is false when
// the text is empty or no language can be determined.
func (d *Detector) DetectWithConfidence(text string) (iso string, confidence float64, ok bool) {
	if strings.TrimSpace(text) == "" {
		return "", 0, false
	}

	values := d.detector.ComputeLanguageConfidenceValues(text)
	if len(values) == 0 {
		return "", 0, false
	}

	top := values[0]
	if top.Value() <= 0 {
		return "", 0, false
	}
	return strings.ToLower(top.Language().IsoCode639_1().String()), top.Value(), true
}
