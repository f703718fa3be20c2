package ai

import (
	"context"
	"strings"

	"github.com/vedantnaik09/ey-bpo/internal/models"
	"github.com/vedantnaik09/ey-bpo/internal/utils"
)

// MockAnalyzer produces deterministic scores from a hash of the text so the
// service runs offline with stable, varied-looking output.
type MockAnalyzer struct{}

func (m MockAnalyzer) ScoreSignals(ctx context.Context, text string) (Signals, error) {
	h := utils.HashStringToUint64(text)
	return Signals{
		Sentiment:  float64(h%97) / 96.0,
		Urgency:    float64((h/7)%89) / 88.0,
		Politeness: float64((h/13)%83) / 82.0,
	}, nil
}

func (m MockAnalyzer) Categorize(ctx context.Context, text string) (models.Category, error) {
	t := strings.ToLower(text)
	switch {
	case containsAny(t, "internet", "network", "router", "speed", "outage", "signal"):
		return models.CategoryTechnical, nil
	case containsAny(t, "bill", "charge", "payment", "refund", "invoice"):
		return models.CategoryBilling, nil
	case containsAny(t, "new connection", "install", "activation"):
		return models.CategoryNewConnection, nil
	case containsAny(t, "bundle", "offer", "plan", "upgrade"):
		return models.CategoryBundleOffer, nil
	}
	return models.CategoryNone, nil
}

// Similarity judges a candidate similar when it shares at least two
// significant words with the reference. Crude, but deterministic and close
// enough for demos and tests.
func (m MockAnalyzer) Similarity(ctx context.Context, candidates []string, reference string) (SimilarityResult, error) {
	refWords := significantWords(reference)
	res := SimilarityResult{FirstIndex: -1}
	for i, cand := range candidates {
		shared := 0
		for w := range significantWords(cand) {
			if _, ok := refWords[w]; ok {
				shared++
			}
		}
		if shared >= 2 {
			res.Count++
			if !res.Matched {
				res.Matched = true
				res.FirstIndex = i
			}
		}
	}
	return res, nil
}

func containsAny(text string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}

func significantWords(text string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?;:\"'()")
		if len(w) >= 4 {
			out[w] = struct{}{}
		}
	}
	return out
}
