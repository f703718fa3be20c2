package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vedantnaik09/ey-bpo/internal/ai"
	"github.com/vedantnaik09/ey-bpo/internal/models"
)

type fakeAnalyzer struct {
	similarityCalls int
	result          ai.SimilarityResult
	err             error
}

func (f *fakeAnalyzer) ScoreSignals(ctx context.Context, text string) (ai.Signals, error) {
	return ai.NeutralSignals(), nil
}

func (f *fakeAnalyzer) Categorize(ctx context.Context, text string) (models.Category, error) {
	return models.CategoryNone, nil
}

func (f *fakeAnalyzer) Similarity(ctx context.Context, candidates []string, reference string) (ai.SimilarityResult, error) {
	f.similarityCalls++
	return f.result, f.err
}

func TestResolveEmptyHistorySkipsOracle(t *testing.T) {
	fake := &fakeAnalyzer{}
	r := RecurrenceResolver{Analyzer: fake, Logger: zerolog.Nop()}

	count, ticket := r.Resolve(context.Background(), models.TicketCorrelation{}, "fresh-token", "internet down")
	if count != 0 || ticket != "fresh-token" {
		t.Fatalf("expected (0, fresh-token), got (%d, %s)", count, ticket)
	}
	if fake.similarityCalls != 0 {
		t.Fatalf("oracle must not be invoked for empty history")
	}
}

func TestResolveReturnsFirstMatchingTicket(t *testing.T) {
	fake := &fakeAnalyzer{result: ai.SimilarityResult{Count: 1, FirstIndex: 0, Matched: true}}
	r := RecurrenceResolver{Analyzer: fake, Logger: zerolog.Nop()}

	history := models.TicketCorrelation{
		Descriptions: []string{"slow internet", "billing error"},
		TicketIDs:    []string{"T1", "T2"},
	}
	count, ticket := r.Resolve(context.Background(), history, "fresh-token", "internet speed issue")
	if count != 1 || ticket != "T1" {
		t.Fatalf("expected (1, T1), got (%d, %s)", count, ticket)
	}
}

func TestResolveDegradesOnOracleFailure(t *testing.T) {
	fake := &fakeAnalyzer{err: errors.New("gateway down")}
	r := RecurrenceResolver{Analyzer: fake, Logger: zerolog.Nop()}

	history := models.TicketCorrelation{
		Descriptions: []string{"slow internet"},
		TicketIDs:    []string{"T1"},
	}
	count, ticket := r.Resolve(context.Background(), history, "fresh-token", "internet speed issue")
	if count != 0 || ticket != "fresh-token" {
		t.Fatalf("oracle failure must degrade to (0, new token), got (%d, %s)", count, ticket)
	}
}

func TestResolveIgnoresOutOfRangeIndex(t *testing.T) {
	fake := &fakeAnalyzer{result: ai.SimilarityResult{Count: 2, FirstIndex: 9, Matched: true}}
	r := RecurrenceResolver{Analyzer: fake, Logger: zerolog.Nop()}

	history := models.TicketCorrelation{
		Descriptions: []string{"slow internet"},
		TicketIDs:    []string{"T1"},
	}
	count, ticket := r.Resolve(context.Background(), history, "fresh-token", "internet speed issue")
	if count != 0 || ticket != "fresh-token" {
		t.Fatalf("out-of-range oracle index must degrade, got (%d, %s)", count, ticket)
	}
}

func TestNewTicketTokenUnique(t *testing.T) {
	a, b := NewTicketToken(), NewTicketToken()
	if a == b {
		t.Fatalf("tokens should not collide: %s", a)
	}
	if a == "" || b == "" {
		t.Fatalf("tokens must be non-empty")
	}
}
