package metrics

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// numberPattern matches integers, decimals (dot or comma) and percentages.
var numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?%?`)

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Preservation checks that content elements of the source survive the
// translation: numeric tokens, the punctuation pattern, and capitalized
// tokens (a crude named-entity heuristic). The three sub-checks are averaged
// with equal weights.
type Preservation struct{}

func NewPreservation() *Preservation { return &Preservation{} }

func (m *Preservation) Name() string { return "preservation" }

func (m *Preservation) Applicable(Input) bool { return true }

func (m *Preservation) Evaluate(_ context.Context, in Input) (Evaluation, error) {
	if strings.TrimSpace(in.Translated) == "" {
		return Evaluation{Score: 0, Warning: "empty translation"}, nil
	}

	var warnings []string

	sourceNumbers := numberPattern.FindAllString(in.Source, -1)
	targetNumbers := numberPattern.FindAllString(in.Translated, -1)
	numberScore, missing := overlapScore(sourceNumbers, targetNumbers)
	if numberScore < 100 {
		warnings = append(warnings, fmt.Sprintf("potential content loss: %d number(s) not preserved", missing))
	}

	punctScore := punctuationScore(in.Source, in.Translated)
	if punctScore < 80 {
		warnings = append(warnings, "format drift: punctuation pattern differs")
	}

	entityScore, _ := overlapScore(capitalizedWords(in.Source), capitalizedWords(in.Translated))
	if entityScore < 80 {
		warnings = append(warnings, "potential content loss: some capitalized words not preserved")
	}

	overall := (numberScore + punctScore + entityScore) / 3

	return Evaluation{
		Score: overall,
		Details: map[string]any{
			"numbers":     numberScore,
			"punctuation": punctScore,
			"entities":    entityScore,
		},
		Warning: strings.Join(warnings, "; "),
	}, nil
}

// overlapScore returns the percentage of distinct source items present in
// the target, plus the count of missing items. No items to preserve scores
// a perfect 100.
func overlapScore(source, target []string) (float64, int) {
	if len(source) == 0 {
		return 100, 0
	}

	targetSet := make(map[string]struct{}, len(target))
	for _, t := range target {
		targetSet[t] = struct{}{}
	}

	sourceSet := make(map[string]struct{}, len(source))
	for _, s := range source {
		sourceSet[s] = struct{}{}
	}

	preserved := 0
	for s := range sourceSet {
		if _, ok := targetSet[s]; ok {
			preserved++
		}
	}

	return float64(preserved) / float64(len(sourceSet)) * 100, len(sourceSet) - preserved
}

// punctuationScore compares punctuation usage: the fraction of source
// punctuation marks that also occur in the translation.
func punctuationScore(source, target string) float64 {
	sourcePunct := extractPunctuation(source)
	if len(sourcePunct) == 0 {
		return 100
	}
	targetPunct := extractPunctuation(target)

	matches := 0
	for _, c := range sourcePunct {
		if strings.ContainsRune(targetPunct, c) {
			matches++
		}
	}
	return float64(matches) / float64(len([]rune(sourcePunct))) * 100
}

func extractPunctuation(text string) string {
	var sb strings.Builder
	for _, c := range text {
		if strings.ContainsRune(asciiPunctuation, c) {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

func capitalizedWords(text string) []string {
	var out []string
	for _, w := range strings.Fields(text) {
		r := []rune(w)
		if len(r) > 0 && unicode.IsUpper(r[0]) {
			out = append(out, w)
		}
	}
	return out
}
