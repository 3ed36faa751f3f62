package game

import "github.com/pefman/spell-duel/internal/models"

// Player spells accepted by ApplyPlayerAction.
const (
	SpellHeal        = "heal"
	SpellDmgBoost    = "dmg_boost"
	SpellCritBoost   = "crit_boost"
	SpellDefBoost    = "def_boost"
	SpellPunch       = "punch"
	SpellSpearThrow  = "spear_throw"
	SpellTornado     = "tornado"
	SpellShieldBlock = "shield_block"
	SpellReset       = "reset"
)

// Spells lists every player spell except reset.
var Spells = []string{
	SpellHeal, SpellDmgBoost, SpellCritBoost, SpellDefBoost,
	SpellPunch, SpellSpearThrow, SpellTornado, SpellShieldBlock,
}

// Enemy sub-actions, chosen uniformly each enemy turn.
const (
	EnemyAttack      = "attack"
	EnemyHeavyAttack = "heavy_attack"
	EnemyDefend      = "defend"
)

var enemyActions = []string{EnemyAttack, EnemyHeavyAttack, EnemyDefend}

// Fixed messages for the non-resolving paths.
const (
	MsgReset          = "Game reset!"
	MsgWaitYourTurn   = "Wait for your turn!"
	MsgNotEnemyTurn   = "Not enemy's turn!"
	MsgEnemyDefeated  = "Enemy defeated!"
	MsgTornadoMissed  = "Your tornado missed!"
	MsgEnemyDefends   = "Enemy braces for defense."
	MsgShieldRaised   = "You brace your shield! Next attack damage halved."
	MsgAttackBoosted  = "Your attack increased by 10 for 3 turns!"
	MsgCritBoosted    = "Your critical hit rate increased for 3 turns!"
	MsgDefenseBoosted = "Your defense increased by 10 for 3 turns!"
)

const maxHP = 100

// Event describes what a single call resolved to. It is not part of the
// wire payload; observers such as the stats tracker consume it.
type Event struct {
	Actor    models.Side
	Action   string
	Damage   int
	Healed   int
	Critical bool
	Missed   bool
	Rejected bool
	Reset    bool
	// Defeated is set when this action brought the target to 0 hp.
	Defeated bool
}

// Result pairs the wire outcome with the resolved event.
type Result struct {
	models.Outcome
	Event Event `json:"-"`
}

func initialPlayer() models.Character {
	return models.Character{Side: models.SidePlayer, HP: maxHP, Attack: 20, Defense: 10, Crit: 0.1, Buffs: models.Buffs{}}
}

func initialEnemy() models.Character {
	return models.Character{Side: models.SideEnemy, HP: maxHP, Attack: 15, Defense: 8, Buffs: models.Buffs{}}
}
