package kb

import (
	"context"
	"errors"
	"testing"
)

func TestStaticLookupMatchesKeyword(t *testing.T) {
	solution, err := StaticLookup{}.Lookup(context.Background(), "my internet has been slow for a week")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if solution == "" {
		t.Fatalf("expected a canned solution")
	}
}

func TestStaticLookupNoMatch(t *testing.T) {
	_, err := StaticLookup{}.Lookup(context.Background(), "completely unrelated topic")
	if !errors.Is(err, ErrNoSolution) {
		t.Fatalf("expected ErrNoSolution, got %v", err)
	}
}
