package stats

import (
	"sync"
	"time"

	"github.com/pefman/spell-duel/internal/game"
	"github.com/pefman/spell-duel/internal/models"
)

// MaxAttack is the biggest single hit of a day.
type MaxAttack struct {
	Actor    models.Side `json:"actor"`
	Action   string      `json:"action"`
	Damage   int         `json:"damage"`
	Critical bool        `json:"critical,omitempty"`
	At       time.Time   `json:"at"`
}

// Summary is the GET /api/stats payload.
type Summary struct {
	Actions      map[string]int `json:"actions"`
	Rejected     int            `json:"rejected"`
	Resets       int            `json:"resets"`
	PlayerDamage int            `json:"player_damage"`
	EnemyDamage  int            `json:"enemy_damage"`
	Healed       int            `json:"healed"`
	Criticals    int            `json:"criticals"`
	Misses       int            `json:"misses"`
	Wins         int            `json:"wins"`
	Losses       int            `json:"losses"`
}

// Tracker accumulates battle statistics in memory. Session resets do not
// clear it.
type Tracker struct {
	mu       sync.Mutex
	now      func() time.Time
	sum      Summary
	dailyMax map[string]MaxAttack // by date string YYYY-MM-DD UTC
}

func NewTracker() *Tracker {
	return &Tracker{now: time.Now, sum: Summary{Actions: map[string]int{}}, dailyMax: map[string]MaxAttack{}}
}

// Record folds one resolved event into the totals.
func (t *Tracker) Record(ev game.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case ev.Rejected:
		t.sum.Rejected++
		return
	case ev.Reset:
		t.sum.Resets++
		return
	}
	if ev.Action != "" {
		t.sum.Actions[ev.Action]++
	}
	if ev.Actor == models.SidePlayer {
		t.sum.PlayerDamage += ev.Damage
		if ev.Defeated {
			t.sum.Wins++
		}
	} else {
		t.sum.EnemyDamage += ev.Damage
		if ev.Defeated {
			t.sum.Losses++
		}
	}
	t.sum.Healed += ev.Healed
	if ev.Critical {
		t.sum.Criticals++
	}
	if ev.Missed {
		t.sum.Misses++
	}
	if ev.Damage > 0 {
		t.saveMax(ev)
	}
}

// saveMax keeps the day's biggest hit; ties go to the earlier one. The first
// hit of a new day rolls the previous days out.
func (t *Tracker) saveMax(ev game.Event) {
	now := t.now().UTC()
	key := dayKey(now)
	cur, ok := t.dailyMax[key]
	if !ok {
		t.rollover(key)
	} else if cur.Damage >= ev.Damage {
		return
	}
	t.dailyMax[key] = MaxAttack{Actor: ev.Actor, Action: ev.Action, Damage: ev.Damage, Critical: ev.Critical, At: now}
}

// Summary returns a copy of the running totals.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.sum
	out.Actions = make(map[string]int, len(t.sum.Actions))
	for k, v := range t.sum.Actions {
		out.Actions[k] = v
	}
	return out
}

// MaxAttackToday returns today's biggest hit, if any.
func (t *Tracker) MaxAttackToday() (MaxAttack, bool) {
	key := dayKey(t.now())
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.dailyMax[key]
	return m, ok
}
