package metrics

import (
	"context"
	"fmt"
	"strings"

	"github.com/babelmark/babelmark/internal/embedding"
)

// SemanticSimilarity scores cross-lingual meaning preservation: both texts
// are embedded with the shared multilingual encoder and compared by cosine
// similarity, with negative similarity clamped to zero before mapping onto
// the 0-100 scale.
type SemanticSimilarity struct {
	embedder embedding.Embedder
}

func NewSemanticSimilarity(embedder embedding.Embedder) *SemanticSimilarity {
	return &SemanticSimilarity{embedder: embedder}
}

func (m *SemanticSimilarity) Name() string { return "semantic_similarity" }

func (m *SemanticSimilarity) Applicable(Input) bool { return true }

func (m *SemanticSimilarity) Evaluate(ctx context.Context, in Input) (Evaluation, error) {
	if strings.TrimSpace(in.Source) == "" || strings.TrimSpace(in.Translated) == "" {
		return Evaluation{Score: 0, Warning: "empty text"}, nil
	}

	sourceVec, err := m.embedder.Embed(ctx, in.Source)
	if err != nil {
		return Evaluation{}, fmt.Errorf("failed to embed source: %w", err)
	}
	targetVec, err := m.embedder.Embed(ctx, in.Translated)
	if err != nil {
		return Evaluation{}, fmt.Errorf("failed to embed translation: %w", err)
	}

	similarity := embedding.Cosine(sourceVec, targetVec)
	score := clamp(similarity, 0, 1) * 100

	return Evaluation{
		Score:   score,
		Details: map[string]any{"similarity": similarity},
	}, nil
}
