package services

import (
	"errors"
	"time"

	"golang.org/x/exp/slices"
)

// BookingWindow is the slice of a booking the scheduler cares about: its id
// and its half-open [Start, End) date range.
type BookingWindow struct {
	ID    uint
	Start time.Time
	End   time.Time
}

// Decision is the outcome of an availability check. When Approved is false,
// ConflictingID names the first conflicting booking in scan order and the
// boundary flags say which end of the proposed range landed inside it. Both
// flags are true when one range is fully nested in the other.
type Decision struct {
	Approved      bool
	ConflictingID uint
	StartConflict bool
	EndConflict   bool
}

var (
	// ErrExpiredBooking rejects any modification of a booking whose end date
	// has already passed.
	ErrExpiredBooking = errors.New("past bookings can't be modified")

	// ErrBookingInProgress rejects deletion of a booking whose start date has
	// already passed.
	ErrBookingInProgress = errors.New("bookings that have been started can't be deleted")
)

// Overlaps reports whether the half-open ranges [s1,e1) and [s2,e2) intersect.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// CheckAvailability decides whether [start, end) can be booked given every
// other confirmed booking for the same spot. excludeID, when non-zero, removes
// the booking being updated from consideration so it never collides with
// itself. The caller guarantees start < end.
//
// Candidates are scanned by ascending start date, then id, so the reported
// conflict is deterministic for a given snapshot.
func CheckAvailability(existing []BookingWindow, start, end time.Time, excludeID uint) Decision {
	candidates := make([]BookingWindow, 0, len(existing))
	for _, w := range existing {
		if excludeID != 0 && w.ID == excludeID {
			continue
		}
		candidates = append(candidates, w)
	}

	slices.SortFunc(candidates, func(a, b BookingWindow) int {
		if !a.Start.Equal(b.Start) {
			if a.Start.Before(b.Start) {
				return -1
			}
			return 1
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})

	for _, w := range candidates {
		if !Overlaps(start, end, w.Start, w.End) {
			continue
		}
		return Decision{
			ConflictingID: w.ID,
			StartConflict: withinInclusive(start, w.Start, w.End),
			EndConflict:   withinInclusive(end, w.Start, w.End),
		}
	}

	return Decision{Approved: true}
}

// withinInclusive reports whether t falls inside [start, end], inclusive on
// both ends. Boundary reporting is inclusive even though overlap arithmetic
// is half-open.
func withinInclusive(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// CheckMutable gates booking updates: a booking whose stored end date is
// strictly before now is immutable. This runs before any overlap check and
// short-circuits it entirely.
func CheckMutable(stored BookingWindow, now time.Time) error {
	if stored.End.Before(now) {
		return ErrExpiredBooking
	}
	return nil
}

// CheckDeletable gates booking deletion: allowed only while the stored start
// date is still strictly in the future.
func CheckDeletable(stored BookingWindow, now time.Time) error {
	if !stored.Start.After(now) {
		return ErrBookingInProgress
	}
	return nil
}
