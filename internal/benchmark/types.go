// Package benchmark holds the domain types shared by the orchestrator,
// evaluation engine, store, and transports: requests, outcomes, score
// breakdowns, and the run aggregate with its derived summary.
package benchmark

import (
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrEmptyText   = errors.New("source text must not be empty")
	ErrTextTooLong = errors.New("source text exceeds the maximum length")
	ErrNoProviders = errors.New("at least one provider must be configured")
	ErrRunNotFound = errors.New("run not found")
)

// ProviderConfig selects and parameterizes one translation provider for a run.
type ProviderConfig struct {
	Type        string `json:"type" mapstructure:"type"`
	Model       string `json:"model,omitempty" mapstructure:"model"`
	BaseURL     string `json:"base_url,omitempty" mapstructure:"base_url"`
	APIKey      string `json:"-" mapstructure:"api_key"`
	Credentials string `json:"-" mapstructure:"credentials"`
}

// TranslationRequest is one benchmarking invocation: a single source text
// fanned out to every listed provider.
type TranslationRequest struct {
	Text       string           `json:"text"`
	SourceLang string           `json:"source_lang,omitempty"`
	TargetLang string           `json:"target_lang"`
	Reference  string           `json:"reference,omitempty"`
	Providers  []ProviderConfig `json:"providers"`
}

// Validate checks the request against the configured limits. Text length is
// counted in Unicode code points, not bytes.
func (r TranslationRequest) Validate(maxTextLength int) error {
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	if maxTextLength > 0 && utf8.RuneCountInString(r.Text) > maxTextLength {
		return ErrTextTooLong
	}
	if len(r.Providers) == 0 {
		return ErrNoProviders
	}
	return nil
}

// ProviderOutcome is the settled result of one provider call: either an
// output text or an error, never both.
type ProviderOutcome struct {
	Provider    string `json:"provider"`
	Model       string `json:"model,omitempty"`
	OutputText  string `json:"output_text,omitempty"`
	LatencyMS   int64  `json:"latency_ms"`
	UsageTokens int    `json:"usage_tokens,omitempty"`
	Error       string `json:"error,omitempty"`
}

func (o ProviderOutcome) Failed() bool { return o.Error != "" }

// MetricResult is one metric's contribution to a breakdown, kept for
// provenance.
type MetricResult struct {
	Name    string         `json:"name"`
	Score   float64        `json:"score"`
	Weight  float64        `json:"weight"`
	Details map[string]any `json:"details,omitempty"`
}

// ScoreBreakdown is the fused evaluation of one translation. Failed marks a
// translation no metric could score; its Overall is meaningless and it never
// enters a ranking.
type ScoreBreakdown struct {
	Overall     float64        `json:"overall"`
	Metrics     []MetricResult `json:"metrics"`
	Warnings    []string       `json:"warnings,omitempty"`
	Explanation string         `json:"explanation,omitempty"`
	Failed      bool           `json:"failed,omitempty"`
}

// ProviderReport pairs a provider outcome with its evaluation. Evaluation is
// nil when the outcome failed.
type ProviderReport struct {
	Outcome    ProviderOutcome `json:"outcome"`
	Evaluation *ScoreBreakdown `json:"evaluation,omitempty"`
}

// Scored reports whether this result carries a usable overall score.
func (r ProviderReport) Scored() bool {
	return !r.Outcome.Failed() && r.Evaluation != nil && !r.Evaluation.Failed
}

// RankingEntry is one row of the run ranking, 1-based.
type RankingEntry struct {
	Rank      int     `json:"rank"`
	Provider  string  `json:"provider"`
	Model     string  `json:"model,omitempty"`
	Score     float64 `json:"score"`
	LatencyMS int64   `json:"latency_ms"`
}

// RunSummary is derived from the results; it is recomputed on read rather
// than trusted from storage.
type RunSummary struct {
	TotalProviders int            `json:"total_providers"`
	Rankings       []RankingEntry `json:"rankings"`
	BestProvider   string         `json:"best_provider,omitempty"`
	BestScore      *float64       `json:"best_score,omitempty"`
}

// Run is the aggregate produced by one benchmarking invocation.
type Run struct {
	ID         string           `json:"id,omitempty"`
	SourceText string           `json:"source_text"`
	SourceLang string           `json:"source_lang,omitempty"`
	TargetLang string           `json:"target_lang"`
	Reference  string           `json:"reference,omitempty"`
	Results    []ProviderReport `json:"results"`
	Summary    RunSummary       `json:"summary"`
	CreatedAt  time.Time        `json:"created_at"`
}

// RunListItem is the compact listing view of a persisted run.
type RunListItem struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	SourceLang    string    `json:"source_lang,omitempty"`
	TargetLang    string    `json:"target_lang"`
	TextPreview   string    `json:"text_preview"`
	ProviderCount int       `json:"provider_count"`
	AvgScore      *float64  `json:"avg_score,omitempty"`
}

// Summarize ranks the scored results. Order is total: overall score
// descending, then latency ascending, then submission order. Failed outcomes
// and failed evaluations count toward TotalProviders but are never ranked.
func Summarize(results []ProviderReport) RunSummary {
	summary := RunSummary{TotalProviders: len(results)}

	type candidate struct {
		index  int
		report ProviderReport
	}
	var scored []candidate
	for i, r := range results {
		if r.Scored() {
			scored = append(scored, candidate{index: i, report: r})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.report.Evaluation.Overall != b.report.Evaluation.Overall {
			return a.report.Evaluation.Overall > b.report.Evaluation.Overall
		}
		if a.report.Outcome.LatencyMS != b.report.Outcome.LatencyMS {
			return a.report.Outcome.LatencyMS < b.report.Outcome.LatencyMS
		}
		return a.index < b.index
	})

	for rank, c := range scored {
		summary.Rankings = append(summary.Rankings, RankingEntry{
			Rank:      rank + 1,
			Provider:  c.report.Outcome.Provider,
			Model:     c.report.Outcome.Model,
			Score:     c.report.Evaluation.Overall,
			LatencyMS: c.report.Outcome.LatencyMS,
		})
	}

	if len(scored) > 0 {
		best := scored[0]
		summary.BestProvider = best.report.Outcome.Provider
		score := best.report.Evaluation.Overall
		summary.BestScore = &score
	}

	return summary
}
