package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vedantnaik09/ey-bpo/internal/ai"
	"github.com/vedantnaik09/ey-bpo/internal/kb"
	"github.com/vedantnaik09/ey-bpo/internal/models"
)

type failingAnalyzer struct{}

func (failingAnalyzer) ScoreSignals(ctx context.Context, text string) (ai.Signals, error) {
	return ai.Signals{}, errors.New("gateway unreachable")
}

func (failingAnalyzer) Categorize(ctx context.Context, text string) (models.Category, error) {
	return "", errors.New("gateway unreachable")
}

func (failingAnalyzer) Similarity(ctx context.Context, candidates []string, reference string) (ai.SimilarityResult, error) {
	return ai.SimilarityResult{}, errors.New("gateway unreachable")
}

type failingLookup struct{}

func (failingLookup) Lookup(ctx context.Context, text string) (string, error) {
	return "", errors.New("kb unreachable")
}

func TestAnalyzeFallsBackToNeutralDefaults(t *testing.T) {
	s := &TriageService{Analyzer: failingAnalyzer{}, Logger: zerolog.Nop()}

	signals, category := s.analyze(context.Background(), "internet down")
	if signals != ai.NeutralSignals() {
		t.Fatalf("expected neutral signals, got %+v", signals)
	}
	if category != models.CategoryNone {
		t.Fatalf("expected no category, got %q", category)
	}
}

func TestAnalyzeClampsOutOfRangeSignals(t *testing.T) {
	s := &TriageService{Analyzer: outOfRangeAnalyzer{}, Logger: zerolog.Nop()}

	signals, _ := s.analyze(context.Background(), "internet down")
	if signals.Sentiment != 0 || signals.Urgency != 1 || signals.Politeness != 1 {
		t.Fatalf("expected clamped signals, got %+v", signals)
	}
}

type outOfRangeAnalyzer struct{}

func (outOfRangeAnalyzer) ScoreSignals(ctx context.Context, text string) (ai.Signals, error) {
	return ai.Signals{Sentiment: -2, Urgency: 3, Politeness: 1.2}, nil
}

func (outOfRangeAnalyzer) Categorize(ctx context.Context, text string) (models.Category, error) {
	return models.CategoryTechnical, nil
}

func (outOfRangeAnalyzer) Similarity(ctx context.Context, candidates []string, reference string) (ai.SimilarityResult, error) {
	return ai.SimilarityResult{}, nil
}

func TestLookupSolutionNeverFailsSubmission(t *testing.T) {
	s := &TriageService{KB: failingLookup{}, Logger: zerolog.Nop()}
	if got := s.lookupSolution(context.Background(), "internet down"); got != "" {
		t.Fatalf("expected empty solution on lookup failure, got %q", got)
	}

	s = &TriageService{KB: kb.StaticLookup{}, Logger: zerolog.Nop()}
	if got := s.lookupSolution(context.Background(), "slow internet again"); got == "" {
		t.Fatalf("expected a solution from the static knowledge base")
	}
}
