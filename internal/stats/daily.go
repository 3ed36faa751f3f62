package stats

import "time"

const dayLayout = "2006-01-02"

func dayKey(at time.Time) string { return at.UTC().Format(dayLayout) }

// rollover drops max-attack entries from days other than key, so the table
// holds at most the current UTC day. Callers hold t.mu.
func (t *Tracker) rollover(key string) {
	for k := range t.dailyMax {
		if k != key {
			delete(t.dailyMax, k)
		}
	}
}
