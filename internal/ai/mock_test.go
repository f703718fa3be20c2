package ai

import (
	"context"
	"testing"

	"github.com/vedantnaik09/ey-bpo/internal/models"
)

func TestMockScoreSignalsDeterministic(t *testing.T) {
	m := MockAnalyzer{}
	first, err := m.ScoreSignals(context.Background(), "my internet is broken")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := m.ScoreSignals(context.Background(), "my internet is broken")
	if first != second {
		t.Fatalf("mock signals should be deterministic: %+v vs %+v", first, second)
	}
	for _, v := range []float64{first.Sentiment, first.Urgency, first.Politeness} {
		if v < 0 || v > 1 {
			t.Fatalf("signal %v out of range", v)
		}
	}
}

func TestMockCategorize(t *testing.T) {
	m := MockAnalyzer{}
	cases := []struct {
		text string
		want models.Category
	}{
		{"the internet speed is terrible", models.CategoryTechnical},
		{"I was charged twice on my bill", models.CategoryBilling},
		{"requesting a new connection at my flat", models.CategoryNewConnection},
		{"the bundle offer was never applied", models.CategoryBundleOffer},
		{"general unhappiness", models.CategoryNone},
	}
	for _, tc := range cases {
		got, err := m.Categorize(context.Background(), tc.text)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tc.want {
			t.Fatalf("Categorize(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestMockSimilarity(t *testing.T) {
	m := MockAnalyzer{}
	res, err := m.Similarity(context.Background(), []string{
		"internet speed very slow since monday",
		"wrong amount on invoice",
	}, "the internet speed is still slow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Matched || res.FirstIndex != 0 || res.Count != 1 {
		t.Fatalf("expected first candidate to match, got %+v", res)
	}

	res, _ = m.Similarity(context.Background(), []string{"wrong amount on invoice"}, "router keeps rebooting")
	if res.Matched || res.Count != 0 {
		t.Fatalf("expected no match, got %+v", res)
	}
}
