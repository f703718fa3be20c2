package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/vedantnaik09/ey-bpo/internal/ai"
	"github.com/vedantnaik09/ey-bpo/internal/db"
	"github.com/vedantnaik09/ey-bpo/internal/events"
	"github.com/vedantnaik09/ey-bpo/internal/kb"
	"github.com/vedantnaik09/ey-bpo/internal/models"
)

// TriageService runs the submission pipeline: recurrence resolution, signal
// scoring, priority calculation, solution lookup, and the transactional
// create-with-schedule. Only the store is a hard dependency; every external
// oracle degrades to documented defaults.
type TriageService struct {
	Store    *db.Store
	Analyzer ai.Analyzer
	KB       kb.Lookup
	Events   *events.Producer
	Logger   zerolog.Logger
}

func (s *TriageService) Submit(ctx context.Context, name, phone, description string) (models.Complaint, error) {
	history, err := s.Store.OpenHistory(ctx, phone)
	if err != nil {
		return models.Complaint{}, err
	}

	token := NewTicketToken()
	resolver := RecurrenceResolver{Analyzer: s.Analyzer, Logger: s.Logger}
	pastCount, ticketID := resolver.Resolve(ctx, history, token, description)

	signals, category := s.analyze(ctx, description)
	priority := Score(signals.Sentiment, signals.Urgency, signals.Politeness, pastCount)
	solution := s.lookupSolution(ctx, description)

	now := time.Now().UTC()
	complaint := models.Complaint{
		CustomerName:          name,
		CustomerPhone:         phone,
		Description:           description,
		Category:              category,
		Sentiment:             signals.Sentiment,
		Urgency:               signals.Urgency,
		Politeness:            signals.Politeness,
		Priority:              priority,
		Status:                models.StatusPending,
		TicketID:              ticketID,
		PastCount:             pastCount,
		KnowledgeBaseSolution: solution,
		CreatedAt:             now,
	}

	created, err := s.Store.CreateComplaint(ctx, complaint, CandidateSlots(now, priority))
	if err != nil {
		return models.Complaint{}, err
	}

	if created.ScheduledCallback == nil {
		s.Logger.Warn().Int64("complaint_id", created.ID).Float64("priority", priority).
			Msg("no free callback slot within window, complaint left unscheduled")
	}

	s.Events.ComplaintCreated(ctx, created)
	if created.ScheduledCallback != nil {
		s.Events.ComplaintScheduled(ctx, created)
	}
	return created, nil
}

func (s *TriageService) analyze(ctx context.Context, description string) (ai.Signals, models.Category) {
	signals, err := s.Analyzer.ScoreSignals(ctx, description)
	if err != nil {
		s.Logger.Warn().Err(err).Msg("signal scoring failed, using neutral defaults")
		signals = ai.NeutralSignals()
	}
	signals.Sentiment = ClampSignal(signals.Sentiment)
	signals.Urgency = ClampSignal(signals.Urgency)
	signals.Politeness = ClampSignal(signals.Politeness)

	category, err := s.Analyzer.Categorize(ctx, description)
	if err != nil {
		s.Logger.Warn().Err(err).Msg("categorization failed, storing no category")
		category = models.CategoryNone
	}
	return signals, category
}

func (s *TriageService) lookupSolution(ctx context.Context, description string) string {
	solution, err := s.KB.Lookup(ctx, description)
	if err != nil {
		if !errors.Is(err, kb.ErrNoSolution) {
			s.Logger.Warn().Err(err).Msg("knowledge base lookup failed")
		}
		return ""
	}
	return solution
}

type BulkScheduleResult struct {
	Attempted int `json:"attempted"`
	Scheduled int `json:"scheduled"`
}

// ScheduleAllPending walks pending unscheduled complaints by priority
// descending, then submission time ascending, claiming slots sequentially so
// later complaints in the pass see slots taken by earlier ones. Attempt
// windows are anchored at the time of the pass, not the original submission.
func (s *TriageService) ScheduleAllPending(ctx context.Context) (BulkScheduleResult, error) {
	pending, err := s.Store.ListUnscheduledPending(ctx)
	if err != nil {
		return BulkScheduleResult{}, err
	}

	now := time.Now().UTC()
	result := BulkScheduleResult{Attempted: len(pending)}
	for _, c := range pending {
		slot, err := s.Store.ScheduleComplaint(ctx, c.ID, CandidateSlots(now, c.Priority))
		if err != nil {
			return result, err
		}
		if slot == nil {
			s.Logger.Info().Int64("complaint_id", c.ID).Msg("no free slot for pending complaint")
			continue
		}
		result.Scheduled++
		c.ScheduledCallback = slot
		s.Events.ComplaintScheduled(ctx, c)
	}
	return result, nil
}
