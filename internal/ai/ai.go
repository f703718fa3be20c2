package ai

import (
	"context"

	"github.com/vedantnaik09/ey-bpo/internal/models"
)

// Signals are the per-complaint text scores, each in [0,1]. Sentiment and
// politeness run from negative/rude (0) to positive/polite (1); urgency runs
// the other way, 1 being the most urgent.
type Signals struct {
	Sentiment  float64
	Urgency    float64
	Politeness float64
}

// NeutralSignals is the documented fallback when the gateway is unreachable
// or returns garbage.
func NeutralSignals() Signals {
	return Signals{Sentiment: 0.5, Urgency: 0.5, Politeness: 0.5}
}

// SimilarityResult reports how many candidate descriptions describe the same
// underlying issue as the reference, and the zero-based index of the first
// such candidate. Matched is false when no candidate is similar.
type SimilarityResult struct {
	Count      int
	FirstIndex int
	Matched    bool
}

type Analyzer interface {
	ScoreSignals(ctx context.Context, text string) (Signals, error)
	Categorize(ctx context.Context, text string) (models.Category, error)
	Similarity(ctx context.Context, candidates []string, reference string) (SimilarityResult, error)
}
