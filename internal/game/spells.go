package game

import (
	"fmt"

	"github.com/pefman/spell-duel/internal/engine"
	"github.com/pefman/spell-duel/internal/models"
)

const (
	punchVariance    = 3
	spearBonusAttack = 5
	spearBonusCrit   = 0.2
	tornadoMissRate  = 0.2
)

// castSpell resolves spell for the player. Caller holds s.mu.
func (s *Session) castSpell(spell string) (string, Event) {
	p, e := &s.player, &s.enemy
	ev := Event{Actor: models.SidePlayer, Action: spell}
	switch spell {
	case SpellHeal:
		amt := engine.RollRange(s.src, 20, 30)
		p.HP = min(maxHP, p.HP+amt)
		ev.Healed = amt
		return fmt.Sprintf("You healed for %d HP!", amt), ev

	case SpellDmgBoost:
		p.Buffs[models.BuffAttack] = 10
		return MsgAttackBoosted, ev

	case SpellCritBoost:
		p.Buffs[models.BuffCrit] = 0.3
		return MsgCritBoosted, ev

	case SpellDefBoost:
		p.Buffs[models.BuffDefense] = 10
		return MsgDefenseBoosted, ev

	case SpellPunch:
		dmg := max(0, p.EffectiveAttack()-e.Defense+engine.RollRange(s.src, -punchVariance, punchVariance))
		ev.Critical = engine.Chance(s.src, p.EffectiveCrit())
		if ev.Critical {
			dmg *= 2
		}
		ev.Damage, ev.Defeated = dmg, hit(e, dmg)
		if ev.Critical {
			return fmt.Sprintf("Critical Punch! You dealt %d damage!", dmg), ev
		}
		return fmt.Sprintf("You punched the enemy for %d damage.", dmg), ev

	case SpellSpearThrow:
		dmg := max(0, p.EffectiveAttack()+spearBonusAttack-e.Defense)
		ev.Critical = engine.Chance(s.src, p.EffectiveCrit()+spearBonusCrit)
		if ev.Critical {
			dmg *= 2
		}
		ev.Damage, ev.Defeated = dmg, hit(e, dmg)
		if ev.Critical {
			return fmt.Sprintf("Critical Spear Throw! You dealt %d damage!", dmg), ev
		}
		return fmt.Sprintf("You threw a spear for %d damage.", dmg), ev

	case SpellTornado:
		if engine.Chance(s.src, tornadoMissRate) {
			ev.Missed = true
			return MsgTornadoMissed, ev
		}
		dmg := engine.RollRange(s.src, 30, 45)
		ev.Damage, ev.Defeated = dmg, hit(e, dmg)
		return fmt.Sprintf("You unleashed a tornado for %d damage!", dmg), ev

	case SpellShieldBlock:
		p.Shield = 0.5
		return MsgShieldRaised, ev
	}
	// Unknown spells fall through: nothing happens but the turn still passes.
	return "", ev
}
