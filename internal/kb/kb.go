package kb

import (
	"context"
	"errors"
)

var ErrNoSolution = errors.New("kb: no solution found")

// Lookup retrieves a suggested solution for a complaint from the knowledge
// base. The result only populates knowledge_base_solution; a failed lookup
// never blocks submission.
type Lookup interface {
	Lookup(ctx context.Context, text string) (string, error)
}
