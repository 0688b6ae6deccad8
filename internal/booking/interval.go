package booking

import "time"

// overlaps reports whether the half-open intervals [s1, e1) and [s2, e2)
// intersect. Back-to-back spans (e1 == s2) do not overlap, so an
// appointment may begin the instant the previous one ends. Every conflict
// check in the engine goes through this one predicate.
func overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// dayBounds returns the [midnight, next midnight) span containing t.
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// sameDay reports whether both instants fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
