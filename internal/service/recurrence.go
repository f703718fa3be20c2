package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vedantnaik09/ey-bpo/internal/ai"
	"github.com/vedantnaik09/ey-bpo/internal/models"
)

// NewTicketToken generates a fresh correlation token. Callers generate one
// unconditionally before resolving so the degraded path always has an id.
func NewTicketToken() string {
	return "TKT-" + uuid.New().String()
}

// RecurrenceResolver decides how many of a customer's open complaints
// describe the same issue as a new one, and which ticket the new complaint
// correlates with.
type RecurrenceResolver struct {
	Analyzer ai.Analyzer
	Logger   zerolog.Logger
}

// Resolve returns the similar-complaint count and the ticket id of the first
// similar entry, or (0, newToken) when the history is empty or the oracle
// fails. Duplicate detection is quality-of-service, never a hard dependency.
func (r RecurrenceResolver) Resolve(ctx context.Context, history models.TicketCorrelation, newToken, description string) (int, string) {
	if history.Empty() {
		return 0, newToken
	}

	res, err := r.Analyzer.Similarity(ctx, history.Descriptions, description)
	if err != nil {
		r.Logger.Warn().Err(err).Msg("similarity oracle failed, treating complaint as new")
		return 0, newToken
	}
	if !res.Matched || res.FirstIndex < 0 || res.FirstIndex >= len(history.TicketIDs) {
		return 0, newToken
	}
	return res.Count, history.TicketIDs[res.FirstIndex]
}
