package models

import "encoding/json"

// ========================= Domain Models =========================
// Wire shapes shared by the session, the HTTP layer and the client.

// Side names whose action is currently valid.
type Side string

const (
	SidePlayer Side = "player"
	SideEnemy  Side = "enemy"
)

// BuffKind keys the additive bonuses in Character.Buffs.
type BuffKind string

const (
	BuffAttack  BuffKind = "attack"
	BuffDefense BuffKind = "defense"
	BuffCrit    BuffKind = "crit"
)

// Buffs persist until overwritten or the duel is reset.
type Buffs map[BuffKind]float64

type Character struct {
	Side    Side    `json:"-"`
	HP      int     `json:"hp"`
	Attack  int     `json:"attack"`
	Defense int     `json:"defense"`
	Crit    float64 `json:"crit"`
	Buffs   Buffs   `json:"buffs"`
	Shield  float64 `json:"shield"` // fraction of incoming damage absorbed once
}

// wireCharacter is the JSON form: crit and shield only exist for the player.
type wireCharacter struct {
	HP      int      `json:"hp"`
	Attack  int      `json:"attack"`
	Defense int      `json:"defense"`
	Crit    *float64 `json:"crit,omitempty"`
	Buffs   Buffs    `json:"buffs"`
	Shield  *float64 `json:"shield,omitempty"`
}

func (c Character) MarshalJSON() ([]byte, error) {
	w := wireCharacter{HP: c.HP, Attack: c.Attack, Defense: c.Defense, Buffs: c.Buffs}
	if w.Buffs == nil {
		w.Buffs = Buffs{}
	}
	if c.Side != SideEnemy {
		crit, shield := c.Crit, c.Shield
		w.Crit, w.Shield = &crit, &shield
	}
	return json.Marshal(w)
}

func (c *Character) UnmarshalJSON(b []byte) error {
	var w wireCharacter
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*c = Character{HP: w.HP, Attack: w.Attack, Defense: w.Defense, Buffs: w.Buffs, Side: SideEnemy}
	if c.Buffs == nil {
		c.Buffs = Buffs{}
	}
	if w.Crit != nil || w.Shield != nil {
		c.Side = SidePlayer
	}
	if w.Crit != nil {
		c.Crit = *w.Crit
	}
	if w.Shield != nil {
		c.Shield = *w.Shield
	}
	return nil
}

// Buff returns the bonus for kind, 0 when absent.
func (c Character) Buff(kind BuffKind) float64 { return c.Buffs[kind] }

// EffectiveAttack is base attack plus the attack buff.
func (c Character) EffectiveAttack() int { return c.Attack + int(c.Buff(BuffAttack)) }

// EffectiveDefense is base defense plus the defense buff.
func (c Character) EffectiveDefense() int { return c.Defense + int(c.Buff(BuffDefense)) }

// EffectiveCrit is base crit plus the crit buff.
func (c Character) EffectiveCrit() float64 { return c.Crit + c.Buff(BuffCrit) }

// Clone returns a copy that shares no map with c.
func (c Character) Clone() Character {
	out := c
	out.Buffs = make(Buffs, len(c.Buffs))
	for k, v := range c.Buffs {
		out.Buffs[k] = v
	}
	return out
}

// State is the GET /api/state payload.
type State struct {
	Player Character `json:"player"`
	Enemy  Character `json:"enemy"`
	Turn   Side      `json:"turn"`
}

// Outcome is the payload of every mutating call.
type Outcome struct {
	Player  Character `json:"player"`
	Enemy   Character `json:"enemy"`
	Message string    `json:"message"`
	Turn    Side      `json:"turn"`
}

// SpellRequest is the POST /api/spell body.
type SpellRequest struct {
	Spell string `json:"spell"`
}

// WebSocket message structure
type WsMsg struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}
