package game

import (
	"fmt"

	"github.com/pefman/spell-duel/internal/engine"
	"github.com/pefman/spell-duel/internal/models"
)

const heavyAttackBonus = 5

// enemyTurn picks and resolves the enemy's action. Caller holds s.mu.
// The defend buff is recorded on the enemy but no formula reads it.
func (s *Session) enemyTurn() (string, Event) {
	ev := Event{Actor: models.SideEnemy}
	if s.enemy.HP <= 0 {
		return MsgEnemyDefeated, ev
	}
	ev.Action = engine.Pick(s.src, enemyActions)
	switch ev.Action {
	case EnemyAttack:
		ev.Damage = s.strike(s.enemy.Attack)
		ev.Defeated = hit(&s.player, ev.Damage)
		return fmt.Sprintf("Enemy attacks for %d damage!", ev.Damage), ev
	case EnemyHeavyAttack:
		ev.Damage = s.strike(s.enemy.Attack + heavyAttackBonus)
		ev.Defeated = hit(&s.player, ev.Damage)
		return fmt.Sprintf("Enemy uses Heavy Strike for %d damage!", ev.Damage), ev
	default:
		s.enemy.Buffs[models.BuffDefense] = 5
		return MsgEnemyDefends, ev
	}
}

// strike computes damage against the player's base defense and spends the
// shield, if any, even when the raw damage is already zero.
func (s *Session) strike(attack int) int {
	dmg := max(0, attack-s.player.Defense)
	if s.player.Shield > 0 {
		dmg = int(float64(dmg) * (1 - s.player.Shield))
		s.player.Shield = 0
	}
	return dmg
}
