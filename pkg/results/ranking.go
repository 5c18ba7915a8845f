package results

import (
	"sort"
	"time"
)

// Entry is one crew-in-race result row. FinishTime is set when the crew's
// finish detection resolved; DurationMs only when both start and finish
// resolved ("finish known, duration unknown" stays distinct).
type Entry struct {
	CrewID      int
	RaceID      int
	CategoryID  int
	Lane        int
	ClubName    string
	CrewStatus  string
	FinishTime  *time.Time
	DurationMs  *int64
	Position    *int
	RankInRace  *int
	RankScratch *int
}

// Order sorts entries by the single ranking rule used at every granularity:
// resolved finish times first ordered by duration ascending (entries with a
// finish but no duration after those with one), everything else last. The
// sort is stable; equal durations keep their incoming order.
func Order(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if (a.FinishTime != nil) != (b.FinishTime != nil) {
			return a.FinishTime != nil
		}
		if a.FinishTime == nil {
			return false
		}
		if (a.DurationMs != nil) != (b.DurationMs != nil) {
			return a.DurationMs != nil
		}
		if a.DurationMs == nil {
			return false
		}
		return *a.DurationMs < *b.DurationMs
	})
}

// Apply orders the entries and hands a 1-based position to the setter for
// exactly the entries with a resolved finish time; all others receive nil.
func Apply(entries []*Entry, set func(e *Entry, pos *int)) {
	Order(entries)
	pos := 0
	for _, e := range entries {
		if e.FinishTime != nil {
			pos++
			p := pos
			set(e, &p)
		} else {
			set(e, nil)
		}
	}
}
