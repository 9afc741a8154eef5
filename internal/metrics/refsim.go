package metrics

import (
	"context"
	"fmt"
	"strings"

	"github.com/babelmark/babelmark/internal/embedding"
)

// ReferenceSimilarity compares the translation against the supplied
// reference translation in embedding space. Unlike BLEU/ChrF it rewards
// paraphrases that preserve meaning. Applicable only with a reference.
type ReferenceSimilarity struct {
	embedder embedding.Embedder
}

func NewReferenceSimilarity(embedder embedding.Embedder) *ReferenceSimilarity {
	return &ReferenceSimilarity{embedder: embedder}
}

func (m *ReferenceSimilarity) Name() string { return "reference_similarity" }

func (m *ReferenceSimilarity) Applicable(in Input) bool { return in.Reference != "" }

func (m *ReferenceSimilarity) Evaluate(ctx context.Context, in Input) (Evaluation, error) {
	if strings.TrimSpace(in.Translated) == "" {
		return Evaluation{Score: 0, Warning: "empty translation"}, nil
	}

	translatedVec, err := m.embedder.Embed(ctx, in.Translated)
	if err != nil {
		return Evaluation{}, fmt.Errorf("failed to embed translation: %w", err)
	}
	referenceVec, err := m.embedder.Embed(ctx, in.Reference)
	if err != nil {
		return Evaluation{}, fmt.Errorf("failed to embed reference: %w", err)
	}

	similarity := embedding.Cosine(translatedVec, referenceVec)
	score := clamp(similarity, 0, 1) * 100

	return Evaluation{
		Score:   score,
		Details: map[string]any{"similarity": similarity},
	}, nil
}
