package service

import (
	"testing"
	"time"
)

func TestWindowTiers(t *testing.T) {
	cases := []struct {
		priority float64
		want     time.Duration
	}{
		{0.9, 48 * time.Hour},
		{0.7, 48 * time.Hour},
		{0.69, 72 * time.Hour},
		{0.4, 72 * time.Hour},
		{0.39, 3 * 24 * time.Hour},
		{0.0, 3 * 24 * time.Hour},
	}
	for _, tc := range cases {
		if got := Window(tc.priority); got != tc.want {
			t.Fatalf("Window(%v) = %v, want %v", tc.priority, got, tc.want)
		}
	}
}

func TestAlignToSlot(t *testing.T) {
	in := time.Date(2025, 1, 6, 8, 17, 42, 0, time.UTC)
	want := time.Date(2025, 1, 6, 8, 30, 0, 0, time.UTC)
	if got := AlignToSlot(in); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	aligned := time.Date(2025, 1, 6, 14, 30, 0, 0, time.UTC)
	if got := AlignToSlot(aligned); !got.Equal(aligned) {
		t.Fatalf("aligned instant should be kept, got %v", got)
	}
}

func TestCandidateSlotsStayInBusinessHours(t *testing.T) {
	starts := []time.Time{
		time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC),   // Monday before open
		time.Date(2025, 1, 8, 13, 12, 0, 0, time.UTC), // Wednesday midday
		time.Date(2025, 1, 10, 16, 45, 0, 0, time.UTC), // Friday near close
		time.Date(2025, 1, 11, 11, 0, 0, 0, time.UTC), // Saturday
	}
	for _, start := range starts {
		for _, priority := range []float64{0.9, 0.5, 0.1} {
			for _, slot := range CandidateSlots(start, priority) {
				if slot.Weekday() == time.Saturday || slot.Weekday() == time.Sunday {
					t.Fatalf("weekend slot %v for start %v", slot, start)
				}
				if slot.Hour() < 9 || slot.Hour() >= 17 {
					t.Fatalf("out-of-hours slot %v for start %v", slot, start)
				}
				if !slot.Truncate(SlotInterval).Equal(slot) {
					t.Fatalf("unaligned slot %v", slot)
				}
			}
		}
	}
}

func TestSchedulePicksOnlyFreeSlot(t *testing.T) {
	// Monday 08:00 submission, high priority. Every Monday slot is occupied
	// except 14:30.
	submitted := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)
	free := time.Date(2025, 1, 6, 14, 30, 0, 0, time.UTC)

	isSlotFree := func(slot time.Time) bool {
		if slot.Day() != 6 {
			return true
		}
		return slot.Equal(free)
	}

	got := Schedule(0.8, submitted, isSlotFree)
	if got == nil {
		t.Fatalf("expected a slot, got none")
	}
	if !got.Equal(free) {
		t.Fatalf("expected %v, got %v", free, *got)
	}
}

func TestScheduleSkipsWeekend(t *testing.T) {
	// Friday 16:45 submission, low priority, empty calendar: the first valid
	// candidate is Monday 09:00.
	submitted := time.Date(2025, 1, 10, 16, 45, 0, 0, time.UTC)
	want := time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC)

	got := Schedule(0.2, submitted, func(time.Time) bool { return true })
	if got == nil {
		t.Fatalf("expected a slot, got none")
	}
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, *got)
	}
}

func TestScheduleReturnsNilWhenFull(t *testing.T) {
	submitted := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)
	got := Schedule(0.8, submitted, func(time.Time) bool { return false })
	if got != nil {
		t.Fatalf("expected nil for a fully booked window, got %v", *got)
	}
}

func TestPriorityBand(t *testing.T) {
	if PriorityBand(0.7) != "high" || PriorityBand(0.4) != "medium" || PriorityBand(0.39) != "low" {
		t.Fatalf("band thresholds are inclusive lower bounds of the higher tier")
	}
}
