package metrics

import (
	"context"
	"strings"
	"testing"
)

func TestPreservation_AllElementsPreserved(t *testing.T) {
	m := NewPreservation()

	eval, err := m.Evaluate(context.Background(), Input{
		Source:     "Alice paid 42.50 for the ticket, a 15% discount!",
		Translated: "Alice zahlte 42.50 für das Ticket, ein 15% Rabatt!",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if eval.Score != 100 {
		t.Errorf("expected 100 when everything is preserved, got %.1f", eval.Score)
	}
	if eval.Warning != "" {
		t.Errorf("expected no warning, got %q", eval.Warning)
	}
}

func TestPreservation_MissingNumbers(t *testing.T) {
	m := NewPreservation()

	eval, err := m.Evaluate(context.Background(), Input{
		Source:     "the order costs 100 plus 25 shipping",
		Translated: "die Bestellung kostet 100",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if eval.Score >= 100 {
		t.Errorf("expected reduced score for a lost number, got %.1f", eval.Score)
	}
	if !strings.Contains(eval.Warning, "number") {
		t.Errorf("expected a content-loss warning about numbers, got %q", eval.Warning)
	}
	if numbers := eval.Details["numbers"].(float64); numbers != 50 {
		t.Errorf("expected number sub-score 50, got %.1f", numbers)
	}
}

func TestPreservation_NoNumbersIsPerfectSubScore(t *testing.T) {
	m := NewPreservation()

	eval, err := m.Evaluate(context.Background(), Input{
		Source:     "hello there",
		Translated: "hallo",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if numbers := eval.Details["numbers"].(float64); numbers != 100 {
		t.Errorf("expected 100 with nothing to preserve, got %.1f", numbers)
	}
}

func TestPreservation_PunctuationDrift(t *testing.T) {
	m := NewPreservation()

	eval, err := m.Evaluate(context.Background(), Input{
		Source:     "Wait... what?! Really?",
		Translated: "Warte was wirklich",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if punct := eval.Details["punctuation"].(float64); punct != 0 {
		t.Errorf("expected punctuation sub-score 0, got %.1f", punct)
	}
	if !strings.Contains(eval.Warning, "punctuation") {
		t.Errorf("expected a format-drift warning, got %q", eval.Warning)
	}
}

func TestPreservation_EmptyTranslation(t *testing.T) {
	m := NewPreservation()

	eval, err := m.Evaluate(context.Background(), Input{Source: "x", Translated: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eval.Score != 0 {
		t.Errorf("expected 0 for empty translation, got %.1f", eval.Score)
	}
}
