package benchmark

import (
	"errors"
	"strings"
	"testing"
)

func validRequest() TranslationRequest {
	return TranslationRequest{
		Text:       "Hello, world",
		TargetLang: "de",
		Providers:  []ProviderConfig{{Type: "openai", Model: "gpt-4"}},
	}
}

func TestValidate_OK(t *testing.T) {
	req := validRequest()
	if err := req.Validate(5000); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestValidate_EmptyText(t *testing.T) {
	req := validRequest()
	req.Text = ""
	if err := req.Validate(5000); !errors.Is(err, ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
}

func TestValidate_TextTooLong(t *testing.T) {
	req := validRequest()
	req.Text = strings.Repeat("a", 5001)
	if err := req.Validate(5000); !errors.Is(err, ErrTextTooLong) {
		t.Errorf("expected ErrTextTooLong, got %v", err)
	}
}

func TestValidate_TextLengthCountsCodePoints(t *testing.T) {
	req := validRequest()
	// 10 code points, far more bytes.
	req.Text = strings.Repeat("ü", 10)
	if err := req.Validate(10); err != nil {
		t.Errorf("expected 10 code points to pass a limit of 10, got %v", err)
	}
}

func TestValidate_NoProviders(t *testing.T) {
	req := validRequest()
	req.Providers = nil
	if err := req.Validate(5000); !errors.Is(err, ErrNoProviders) {
		t.Errorf("expected ErrNoProviders, got %v", err)
	}
}

func scoredReport(provider string, score float64, latencyMS int64) ProviderReport {
	return ProviderReport{
		Outcome: ProviderOutcome{
			Provider:   provider,
			Model:      "m",
			OutputText: "ok",
			LatencyMS:  latencyMS,
		},
		Evaluation: &ScoreBreakdown{Overall: score},
	}
}

func TestSummarize_TieBreakByLatencyThenOrder(t *testing.T) {
	results := []ProviderReport{
		scoredReport("A", 90, 120),
		scoredReport("B", 90, 80),
		scoredReport("C", 70, 50),
	}

	summary := Summarize(results)

	if summary.TotalProviders != 3 {
		t.Errorf("expected 3 total providers, got %d", summary.TotalProviders)
	}
	if len(summary.Rankings) != 3 {
		t.Fatalf("expected 3 ranking entries, got %d", len(summary.Rankings))
	}

	want := []struct {
		rank     int
		provider string
	}{
		{1, "B"},
		{2, "A"},
		{3, "C"},
	}
	for i, w := range want {
		got := summary.Rankings[i]
		if got.Rank != w.rank || got.Provider != w.provider {
			t.Errorf("rank %d: expected %s, got %s (rank %d)", w.rank, w.provider, got.Provider, got.Rank)
		}
	}

	if summary.BestProvider != "B" {
		t.Errorf("expected best provider B, got %s", summary.BestProvider)
	}
	if summary.BestScore == nil || *summary.BestScore != 90 {
		t.Errorf("expected best score 90, got %v", summary.BestScore)
	}
}

func TestSummarize_EqualScoreAndLatencyKeepsSubmissionOrder(t *testing.T) {
	results := []ProviderReport{
		scoredReport("first", 80, 100),
		scoredReport("second", 80, 100),
	}

	summary := Summarize(results)

	if summary.Rankings[0].Provider != "first" || summary.Rankings[1].Provider != "second" {
		t.Errorf("expected submission order to break the tie, got %s then %s",
			summary.Rankings[0].Provider, summary.Rankings[1].Provider)
	}
}

func TestSummarize_FailuresExcludedFromRanking(t *testing.T) {
	results := []ProviderReport{
		{Outcome: ProviderOutcome{Provider: "broken", Error: "timeout"}},
		scoredReport("ok", 75, 10),
	}

	summary := Summarize(results)

	if summary.TotalProviders != 2 {
		t.Errorf("expected failures counted in total, got %d", summary.TotalProviders)
	}
	if len(summary.Rankings) != 1 {
		t.Fatalf("expected 1 ranking entry, got %d", len(summary.Rankings))
	}
	if summary.Rankings[0].Provider != "ok" || summary.Rankings[0].Rank != 1 {
		t.Errorf("unexpected ranking entry: %+v", summary.Rankings[0])
	}
}

func TestSummarize_EvaluationFailedExcludedFromRanking(t *testing.T) {
	results := []ProviderReport{
		{
			Outcome:    ProviderOutcome{Provider: "p", OutputText: "ok"},
			Evaluation: &ScoreBreakdown{Failed: true},
		},
	}

	summary := Summarize(results)

	if len(summary.Rankings) != 0 {
		t.Errorf("expected nothing ranked, got %d entries", len(summary.Rankings))
	}
	if summary.BestProvider != "" || summary.BestScore != nil {
		t.Errorf("expected no best provider, got %s / %v", summary.BestProvider, summary.BestScore)
	}
}

func TestSummarize_AllFailed(t *testing.T) {
	results := []ProviderReport{
		{Outcome: ProviderOutcome{Provider: "a", Error: "boom"}},
		{Outcome: ProviderOutcome{Provider: "b", Error: "bust"}},
	}

	summary := Summarize(results)

	if summary.TotalProviders != 2 || len(summary.Rankings) != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if summary.BestScore != nil {
		t.Errorf("expected absent best score, got %v", *summary.BestScore)
	}
}
