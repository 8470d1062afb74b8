// Package interval holds the overlap rules used by timetable conflict checks.
package interval

import (
	"cmp"
	"time"
)

// Overlaps reports whether the half-open ranges [start1, end1) and [start2, end2)
// intersect. Ranges that only touch at a boundary do not overlap.
func Overlaps[T cmp.Ordered](start1, end1, start2, end2 T) bool {
	return start1 < end2 && start2 < end1
}

// DatesOverlap reports whether two closed validity windows intersect.
// A nil end means the window is open towards the future. Only the calendar
// date of each bound is compared.
func DatesOverlap(from1 time.Time, to1 *time.Time, from2 time.Time, to2 *time.Time) bool {
	return notAfter(from1, to2) && notAfter(from2, to1)
}

func notAfter(from time.Time, to *time.Time) bool {
	if to == nil {
		return true
	}
	return !dateOf(from).After(dateOf(*to))
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
