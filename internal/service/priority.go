package service

import "math"

const (
	urgencyWeight    = 0.35
	politenessWeight = 0.25
	sentimentWeight  = 0.25

	// urgencyExponent compresses the marginal effect of extreme urgency so
	// maximally urgent complaints do not trivially dominate moderately
	// urgent but very impolite ones.
	urgencyExponent = 0.8

	// Each prior similar complaint adds 0.1, capped at 1.0 so a long
	// history cannot permanently outrank a first-time severe complaint.
	recurrenceStep = 0.1
)

// Score computes the callback priority from the text signals and the
// recurrence count. Inputs are expected in [0,1] (callers clamp beforehand);
// the result is always in [0,1].
func Score(sentiment, urgency, politeness float64, pastCount int) float64 {
	recurrence := math.Min(1.0, float64(pastCount)*recurrenceStep)

	priority := math.Pow(urgency, urgencyExponent)*urgencyWeight +
		(1-politeness)*politenessWeight +
		(1-sentiment)*sentimentWeight +
		recurrence

	return math.Min(1.0, math.Max(0.0, priority))
}

// ClampSignal forces a possibly malformed gateway score into [0,1].
func ClampSignal(v float64) float64 {
	if math.IsNaN(v) {
		return 0.5
	}
	return math.Min(1.0, math.Max(0.0, v))
}
