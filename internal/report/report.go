// Package report renders a persisted run as a human-readable markdown
// document, optionally converted to HTML.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/babelmark/babelmark/internal/benchmark"
)

// Markdown renders the run as a markdown report: header, ranking table, and
// one section per provider with its metric breakdown.
func Markdown(run *benchmark.Run) []byte {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Translation Benchmark Run %s\n\n", run.ID))
	sb.WriteString(fmt.Sprintf("- **Created:** %s\n", run.CreatedAt.Format("2006-01-02 15:04:05 UTC")))
	if run.SourceLang != "" {
		sb.WriteString(fmt.Sprintf("- **Source language:** %s\n", run.SourceLang))
	}
	sb.WriteString(fmt.Sprintf("- **Target language:** %s\n", run.TargetLang))
	sb.WriteString(fmt.Sprintf("- **Providers:** %d\n\n", run.Summary.TotalProviders))

	sb.WriteString("## Source text\n\n")
	sb.WriteString(fmt.Sprintf("> %s\n\n", strings.ReplaceAll(run.SourceText, "\n", "\n> ")))

	sb.WriteString("## Ranking\n\n")
	if len(run.Summary.Rankings) == 0 {
		sb.WriteString("All providers failed; nothing to rank.\n\n")
	} else {
		sb.WriteString("| Rank | Provider | Model | Score | Latency |\n")
		sb.WriteString("|------|----------|-------|-------|---------|\n")
		for _, r := range run.Summary.Rankings {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %.1f | %dms |\n",
				r.Rank, r.Provider, r.Model, r.Score, r.LatencyMS))
		}
		sb.WriteString("\n")
	}

	for _, result := range run.Results {
		writeProviderSection(&sb, result)
	}

	return []byte(sb.String())
}

func writeProviderSection(sb *strings.Builder, result benchmark.ProviderReport) {
	o := result.Outcome
	sb.WriteString(fmt.Sprintf("## %s (%s)\n\n", o.Provider, o.Model))

	if o.Failed() {
		sb.WriteString(fmt.Sprintf("**Failed:** %s\n\n", o.Error))
		return
	}

	sb.WriteString(fmt.Sprintf("> %s\n\n", strings.ReplaceAll(o.OutputText, "\n", "\n> ")))
	sb.WriteString(fmt.Sprintf("- Latency: %dms\n", o.LatencyMS))
	if o.UsageTokens > 0 {
		sb.WriteString(fmt.Sprintf("- Tokens: %d\n", o.UsageTokens))
	}

	eval := result.Evaluation
	if eval == nil {
		sb.WriteString("\n")
		return
	}
	if eval.Failed {
		sb.WriteString("- Evaluation failed: no applicable metrics\n\n")
		return
	}

	sb.WriteString(fmt.Sprintf("- Overall score: **%.1f**\n\n", eval.Overall))
	if eval.Explanation != "" {
		sb.WriteString(eval.Explanation + "\n\n")
	}

	sb.WriteString("| Metric | Score | Weight |\n")
	sb.WriteString("|--------|-------|--------|\n")
	for _, m := range eval.Metrics {
		sb.WriteString(fmt.Sprintf("| %s | %.1f | %.2f |\n", m.Name, m.Score, m.Weight))
	}
	sb.WriteString("\n")

	if len(eval.Warnings) > 0 {
		sb.WriteString("**Warnings:**\n\n")
		for _, w := range eval.Warnings {
			sb.WriteString(fmt.Sprintf("- %s\n", w))
		}
		sb.WriteString("\n")
	}
}

// HTML renders the markdown report to HTML.
func HTML(run *benchmark.Run) string {
	return toHTML(Markdown(run))
}

func toHTML(md []byte) string {
	opts := html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank,
	}
	renderer := html.NewRenderer(opts)
	ext := parser.CommonExtensions | parser.Attributes
	p := parser.NewWithExtensions(ext)
	doc := p.Parse(md)
	return string(markdown.Render(doc, renderer))
}
