package service

import "time"

const (
	// SlotInterval is the callback slot grid; every scheduled callback sits
	// on a 30-minute boundary.
	SlotInterval = 30 * time.Minute

	// Business hours: slots start in [09:00, 17:00) on weekdays.
	businessOpenHour  = 9
	businessCloseHour = 17

	// Priority tier thresholds, inclusive lower bounds of the higher tier.
	HighPriorityThreshold   = 0.7
	MediumPriorityThreshold = 0.4
)

// Deadline windows per tier. Coarse on purpose: the table is the audit
// record of the SLA commitment.
const (
	highPriorityWindow   = 48 * time.Hour
	mediumPriorityWindow = 72 * time.Hour
	lowPriorityWindow    = 3 * 24 * time.Hour
)

// Window returns how far past the submission instant a callback may be
// scheduled for the given priority.
func Window(priority float64) time.Duration {
	switch {
	case priority >= HighPriorityThreshold:
		return highPriorityWindow
	case priority >= MediumPriorityThreshold:
		return mediumPriorityWindow
	default:
		return lowPriorityWindow
	}
}

// PriorityBand labels a score for list filtering.
func PriorityBand(priority float64) string {
	switch {
	case priority >= HighPriorityThreshold:
		return "high"
	case priority >= MediumPriorityThreshold:
		return "medium"
	default:
		return "low"
	}
}

// AlignToSlot rounds t up to the next slot boundary; an instant already on
// the grid is kept.
func AlignToSlot(t time.Time) time.Time {
	aligned := t.Truncate(SlotInterval)
	if aligned.Equal(t) {
		return t
	}
	return aligned.Add(SlotInterval)
}

// IsBusinessSlot reports whether t is a valid callback slot start:
// a weekday with the local hour in [09:00, 17:00).
func IsBusinessSlot(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return t.Hour() >= businessOpenHour && t.Hour() < businessCloseHour
}

// CandidateSlots enumerates every valid slot from the submission instant to
// the end of the priority window, earliest first.
func CandidateSlots(submittedAt time.Time, priority float64) []time.Time {
	end := submittedAt.Add(Window(priority))

	var slots []time.Time
	for cur := AlignToSlot(submittedAt); !cur.After(end); cur = cur.Add(SlotInterval) {
		if IsBusinessSlot(cur) {
			slots = append(slots, cur)
		}
	}
	return slots
}

// Schedule picks the earliest candidate slot for which isSlotFree holds.
// Greedy first-match: the global one-callback-per-slot constraint already
// spreads load, so nothing fancier is warranted. Returns nil when the window
// has no free slot; that is a legitimate outcome, not an error.
func Schedule(priority float64, submittedAt time.Time, isSlotFree func(time.Time) bool) *time.Time {
	for _, slot := range CandidateSlots(submittedAt, priority) {
		if isSlotFree(slot) {
			s := slot
			return &s
		}
	}
	return nil
}
