// Package matcher decides, tick by tick, which alarms should ring.
package matcher

import (
	"time"

	"github.com/clockrobustus/clockd/internal/types"
)

// tuple is the debounce key: an alarm fires at most once per exact
// (weekday, hour, minute, second) of live time. Matching on the full tuple
// rather than an "already rang today" flag means a re-entered tick for the
// same second stays silent, while a wall clock stepping backward (DST) gets
// re-evaluated from the instant itself.
type tuple struct {
	weekday time.Weekday
	hour    int
	minute  int
	second  int
}

// Matcher holds the per-alarm debounce state. It is not safe for concurrent
// use; the tick driver is its only caller.
type Matcher struct {
	lastFired map[int64]tuple
}

// New returns a Matcher with empty debounce state.
func New() *Matcher {
	return &Matcher{
		lastFired: make(map[int64]tuple),
	}
}

// Match returns the ids of the alarms that should ring at the given instant,
// in the order they appear in alarms. Debounce records for ids no longer in
// alarms are pruned. Alarms without an id (never stored) are skipped.
func (m *Matcher) Match(now time.Time, alarms []types.Alarm) []int64 {
	h, min, s := now.Clock()
	current := tuple{
		weekday: now.Weekday(),
		hour:    h,
		minute:  min,
		second:  s,
	}

	live := make(map[int64]struct{}, len(alarms))
	var ringing []int64

	for _, alarm := range alarms {
		if alarm.ID == nil {
			continue
		}
		id := *alarm.ID
		live[id] = struct{}{}

		if !alarm.ActiveDays.Contains(current.weekday) {
			continue
		}
		if alarm.Hour != current.hour || alarm.Minute != current.minute || alarm.Second != current.second {
			continue
		}
		if last, ok := m.lastFired[id]; ok && last == current {
			// Already fired for this exact tuple.
			continue
		}

		m.lastFired[id] = current
		ringing = append(ringing, id)
	}

	// Prune debounce state for alarms deleted from the store.
	for id := range m.lastFired {
		if _, ok := live[id]; !ok {
			delete(m.lastFired, id)
		}
	}

	return ringing
}
