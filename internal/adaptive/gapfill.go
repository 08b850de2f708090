package adaptive

import (
	"math"
	"sort"
	"time"
)

// maxInterpolatedGap is the widest gap, in days, that FillGaps will bridge.
// Longer absences are left alone.
const maxInterpolatedGap = 3

// FillGaps returns the weight log sorted oldest first, with linearly
// interpolated entries inserted wherever two consecutive logs are 2 or 3 days
// apart. Logged entries are copied through unchanged.
func FillGaps(entries []WeightLogEntry) []WeightLogEntry {
	sorted := sortedAscending(entries)
	if len(sorted) < 2 {
		return sorted
	}

	filled := make([]WeightLogEntry, 0, len(sorted))
	for i, cur := range sorted {
		if i > 0 {
			prev := sorted[i-1]
			gap := daysBetween(prev.Date, cur.Date)
			if gap > 1 && gap <= maxInterpolatedGap {
				step := (cur.WeightKg - prev.WeightKg) / float64(gap)
				for day := 1; day < gap; day++ {
					filled = append(filled, WeightLogEntry{
						Date:           prev.Date.AddDate(0, 0, day),
						WeightKg:       roundTo(prev.WeightKg+step*float64(day), 1),
						IsInterpolated: true,
						Notes:          "Interpolated",
					})
				}
			}
		}
		filled = append(filled, cur)
	}
	return filled
}

func sortedAscending(entries []WeightLogEntry) []WeightLogEntry {
	out := make([]WeightLogEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// daysBetween counts calendar days from a to b, ignoring time of day and DST.
func daysBetween(a, b time.Time) int {
	return int(math.Round(calendarDay(b).Sub(calendarDay(a)).Hours() / 24))
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
