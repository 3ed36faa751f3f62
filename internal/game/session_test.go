package game

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/pefman/spell-duel/internal/engine"
	"github.com/pefman/spell-duel/internal/models"
)

func newScripted(ints []int, floats []float64) *Session {
	return NewSession(&engine.Scripted{Ints: ints, Floats: floats})
}

// load replaces the duel state wholesale.
func load(s *Session, st models.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player, s.enemy, s.turn = st.Player.Clone(), st.Enemy.Clone(), st.Turn
	s.player.Side, s.enemy.Side = models.SidePlayer, models.SideEnemy
}

func TestNewSession_InitialState(t *testing.T) {
	st := newScripted(nil, nil).State()
	assert.Equal(t, models.SidePlayer, st.Turn)
	assert.Equal(t, 100, st.Player.HP)
	assert.Equal(t, 20, st.Player.Attack)
	assert.Equal(t, 10, st.Player.Defense)
	assert.Equal(t, 0.1, st.Player.Crit)
	assert.Equal(t, 0.0, st.Player.Shield)
	assert.Empty(t, st.Player.Buffs)
	assert.Equal(t, 100, st.Enemy.HP)
	assert.Equal(t, 15, st.Enemy.Attack)
	assert.Equal(t, 8, st.Enemy.Defense)
	assert.Empty(t, st.Enemy.Buffs)
}

func TestPunch_NoCritNoVariance(t *testing.T) {
	// Intn(7)=3 maps to variance 0; Float64 0.99 never crits.
	s := newScripted([]int{3}, []float64{0.99})
	res := s.ApplyPlayerAction(SpellPunch)
	assert.Equal(t, 88, res.Enemy.HP)
	assert.Equal(t, "You punched the enemy for 12 damage.", res.Message)
	assert.Equal(t, models.SideEnemy, res.Turn)
	assert.Equal(t, 12, res.Event.Damage)
	assert.False(t, res.Event.Critical)
}

func TestPunch_CritDoubles(t *testing.T) {
	// variance +3, crit roll 0.05 < 0.1
	s := newScripted([]int{6}, []float64{0.05})
	res := s.ApplyPlayerAction(SpellPunch)
	assert.Equal(t, "Critical Punch! You dealt 30 damage!", res.Message)
	assert.Equal(t, 70, res.Enemy.HP)
	assert.True(t, res.Event.Critical)
}

func TestPunch_UsesAttackBuff(t *testing.T) {
	s := newScripted([]int{0, 3}, []float64{0.99})
	s.ApplyPlayerAction(SpellDmgBoost)
	s.ApplyEnemyAction() // attack: 15-10 = 5
	res := s.ApplyPlayerAction(SpellPunch)
	assert.Equal(t, "You punched the enemy for 22 damage.", res.Message)
	assert.Equal(t, 78, res.Enemy.HP)
	assert.Equal(t, 95, res.Player.HP)
}

func TestHeal_ClampsAtMax(t *testing.T) {
	s := newScripted([]int{5}, nil)
	res := s.ApplyPlayerAction(SpellHeal)
	assert.Equal(t, 100, res.Player.HP)
	assert.Equal(t, "You healed for 25 HP!", res.Message)
	assert.Equal(t, models.SideEnemy, res.Turn)
}

func TestHeal_RestoresHP(t *testing.T) {
	s := newScripted([]int{0}, nil)
	st := s.State()
	st.Player.HP = 50
	load(s, st)
	res := s.ApplyPlayerAction(SpellHeal)
	assert.Equal(t, 70, res.Player.HP)
	assert.Equal(t, 20, res.Event.Healed)
}

func TestBoosts_SetBuffs(t *testing.T) {
	cases := []struct {
		spell string
		kind  models.BuffKind
		value float64
		msg   string
	}{
		{SpellDmgBoost, models.BuffAttack, 10, "Your attack increased by 10 for 3 turns!"},
		{SpellCritBoost, models.BuffCrit, 0.3, "Your critical hit rate increased for 3 turns!"},
		{SpellDefBoost, models.BuffDefense, 10, "Your defense increased by 10 for 3 turns!"},
	}
	for _, tc := range cases {
		t.Run(tc.spell, func(t *testing.T) {
			res := newScripted(nil, nil).ApplyPlayerAction(tc.spell)
			assert.Equal(t, tc.value, res.Player.Buffs[tc.kind])
			assert.Equal(t, tc.msg, res.Message)
			assert.Equal(t, models.SideEnemy, res.Turn)
		})
	}
}

func TestSpearThrow(t *testing.T) {
	res := newScripted(nil, []float64{0.5}).ApplyPlayerAction(SpellSpearThrow)
	assert.Equal(t, "You threw a spear for 17 damage.", res.Message)
	assert.Equal(t, 83, res.Enemy.HP)

	// 0.25 < 0.1 + 0.2
	res = newScripted(nil, []float64{0.25}).ApplyPlayerAction(SpellSpearThrow)
	assert.Equal(t, "Critical Spear Throw! You dealt 34 damage!", res.Message)
	assert.Equal(t, 66, res.Enemy.HP)
}

func TestTornado(t *testing.T) {
	res := newScripted(nil, []float64{0.1}).ApplyPlayerAction(SpellTornado)
	assert.Equal(t, "Your tornado missed!", res.Message)
	assert.Equal(t, 100, res.Enemy.HP)
	assert.True(t, res.Event.Missed)
	assert.Equal(t, models.SideEnemy, res.Turn)

	res = newScripted([]int{15}, []float64{0.5}).ApplyPlayerAction(SpellTornado)
	assert.Equal(t, "You unleashed a tornado for 45 damage!", res.Message)
	assert.Equal(t, 55, res.Enemy.HP)
}

func TestTornado_DefeatsEnemy(t *testing.T) {
	s := newScripted([]int{0}, []float64{0.5})
	st := s.State()
	st.Enemy.HP = 10
	load(s, st)
	res := s.ApplyPlayerAction(SpellTornado)
	assert.Equal(t, 0, res.Enemy.HP)
	assert.True(t, res.Event.Defeated)
}

func TestShieldBlock(t *testing.T) {
	res := newScripted(nil, nil).ApplyPlayerAction(SpellShieldBlock)
	assert.Equal(t, 0.5, res.Player.Shield)
	assert.Equal(t, "You brace your shield! Next attack damage halved.", res.Message)
}

func TestUnknownSpell_PassesTurn(t *testing.T) {
	s := newScripted(nil, nil)
	before := s.State()
	res := s.ApplyPlayerAction("fireball")
	assert.Equal(t, "", res.Message)
	assert.Equal(t, models.SideEnemy, res.Turn)
	assert.Equal(t, before.Player, res.Player)
	assert.Equal(t, before.Enemy, res.Enemy)

	res = s.ApplyPlayerAction("")
	assert.Equal(t, MsgWaitYourTurn, res.Message)
}

func TestPlayerAction_OutOfTurn(t *testing.T) {
	s := newScripted([]int{3}, nil)
	s.ApplyPlayerAction(SpellPunch)
	before := s.State()
	for _, spell := range Spells {
		res := s.ApplyPlayerAction(spell)
		assert.Equal(t, MsgWaitYourTurn, res.Message)
		assert.Equal(t, models.SideEnemy, res.Turn)
		assert.Equal(t, before.Player, res.Player)
		assert.Equal(t, before.Enemy, res.Enemy)
		assert.True(t, res.Event.Rejected)
	}
}

func TestEnemyAction_OutOfTurn(t *testing.T) {
	s := newScripted(nil, nil)
	res := s.ApplyEnemyAction()
	assert.Equal(t, MsgNotEnemyTurn, res.Message)
	assert.Equal(t, models.SidePlayer, res.Turn)
	assert.Equal(t, 100, res.Player.HP)
}

func TestEnemyAction_Defeated(t *testing.T) {
	s := newScripted(nil, nil)
	st := s.State()
	st.Enemy.HP = 0
	st.Turn = models.SideEnemy
	load(s, st)

	res := s.ApplyEnemyAction()
	assert.Equal(t, "Enemy defeated!", res.Message)
	assert.Equal(t, models.SidePlayer, res.Turn)
	assert.Equal(t, st.Player, res.Player)
	assert.Equal(t, st.Enemy, res.Enemy)
}

func TestEnemyAction_Choices(t *testing.T) {
	cases := []struct {
		pick     int
		msg      string
		playerHP int
	}{
		{0, "Enemy attacks for 5 damage!", 95},
		{1, "Enemy uses Heavy Strike for 10 damage!", 90},
		{2, "Enemy braces for defense.", 100},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			s := newScripted([]int{tc.pick}, nil)
			s.ApplyPlayerAction(SpellDmgBoost)
			res := s.ApplyEnemyAction()
			assert.Equal(t, tc.msg, res.Message)
			assert.Equal(t, tc.playerHP, res.Player.HP)
			assert.Equal(t, models.SidePlayer, res.Turn)
		})
	}
}

func TestEnemyDefend_BuffIsRecorded(t *testing.T) {
	s := newScripted([]int{2}, nil)
	s.ApplyPlayerAction(SpellShieldBlock)
	res := s.ApplyEnemyAction()
	assert.Equal(t, 5.0, res.Enemy.Buffs[models.BuffDefense])
	assert.Equal(t, 8, res.Enemy.Defense)
	// defend does not spend the shield
	assert.Equal(t, 0.5, res.Player.Shield)
}

func TestEnemyAttack_UsesBaseDefense(t *testing.T) {
	s := newScripted([]int{0}, nil)
	s.ApplyPlayerAction(SpellDefBoost)
	res := s.ApplyEnemyAction()
	assert.Equal(t, 95, res.Player.HP)
}

func TestShield_HalvesAndIsConsumed(t *testing.T) {
	cases := []struct {
		name     string
		pick     int
		playerHP int
		message  string
	}{
		{"attack", 0, 98, "Enemy attacks for 2 damage!"},                 // floor(5 * 0.5)
		{"heavy_attack", 1, 95, "Enemy uses Heavy Strike for 5 damage!"}, // floor(10 * 0.5)
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newScripted([]int{tc.pick}, nil)
			s.ApplyPlayerAction(SpellShieldBlock)
			res := s.ApplyEnemyAction()
			assert.Equal(t, tc.playerHP, res.Player.HP)
			assert.Equal(t, tc.message, res.Message)
			assert.Equal(t, 0.0, res.Player.Shield)
		})
	}
}

func TestShield_ConsumedOnZeroDamage(t *testing.T) {
	s := newScripted([]int{0}, nil)
	st := s.State()
	st.Player.Defense = 40
	st.Player.Shield = 0.5
	st.Turn = models.SideEnemy
	load(s, st)

	res := s.ApplyEnemyAction()
	assert.Equal(t, "Enemy attacks for 0 damage!", res.Message)
	assert.Equal(t, 100, res.Player.HP)
	assert.Equal(t, 0.0, res.Player.Shield)
}

func TestEnemyAttack_DefeatsPlayer(t *testing.T) {
	s := newScripted([]int{1}, nil)
	st := s.State()
	st.Player.HP = 4
	st.Turn = models.SideEnemy
	load(s, st)

	res := s.ApplyEnemyAction()
	assert.Equal(t, 0, res.Player.HP)
	assert.True(t, res.Event.Defeated)
}

func TestReset_AnyTurnIdempotent(t *testing.T) {
	s := newScripted([]int{3, 1}, []float64{0.99})
	s.ApplyPlayerAction(SpellCritBoost)
	s.ApplyEnemyAction()
	s.ApplyPlayerAction(SpellPunch)
	require.Equal(t, models.SideEnemy, s.State().Turn)

	fresh := newScripted(nil, nil).State()
	res := s.ApplyPlayerAction(SpellReset)
	assert.Equal(t, "Game reset!", res.Message)
	assert.Equal(t, fresh, s.State())
	assert.True(t, res.Event.Reset)

	res = s.Reset()
	assert.Equal(t, "Game reset!", res.Message)
	assert.Equal(t, fresh, s.State())
}

func TestState_IsSnapshot(t *testing.T) {
	s := newScripted(nil, nil)
	st := s.State()
	st.Player.Buffs[models.BuffAttack] = 99
	st.Player.HP = 1
	assert.Empty(t, s.State().Player.Buffs)
	assert.Equal(t, 100, s.State().Player.HP)
}

func TestSession_Property_Invariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64Range(1, 1<<40).Draw(rt, "seed")
		s := NewSession(engine.NewRNG(seed))
		steps := rapid.IntRange(1, 60).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			before := s.State()
			var res Result
			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				spell := rapid.SampledFrom(append([]string{"bogus", SpellReset}, Spells...)).Draw(rt, "spell")
				res = s.ApplyPlayerAction(spell)
				switch {
				case spell == SpellReset:
					assert.Equal(rt, models.SidePlayer, res.Turn)
				case before.Turn != models.SidePlayer:
					assert.True(rt, res.Event.Rejected)
					assert.Equal(rt, before.Turn, res.Turn)
				default:
					assert.Equal(rt, models.SideEnemy, res.Turn)
				}
			case 1:
				res = s.ApplyEnemyAction()
				if before.Turn == models.SideEnemy {
					assert.Equal(rt, models.SidePlayer, res.Turn)
				} else {
					assert.True(rt, res.Event.Rejected)
					assert.Equal(rt, before, s.State())
				}
			default:
				res = s.Reset()
			}
			for _, c := range []models.Character{res.Player, res.Enemy} {
				assert.GreaterOrEqual(rt, c.HP, 0)
				assert.LessOrEqual(rt, c.HP, 100)
			}
			assert.Contains(rt, []float64{0, 0.5}, res.Player.Shield)
		}
	})
}

func TestSession_ConcurrentCallersSerialize(t *testing.T) {
	s := NewSession(engine.NewRNG(7))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				switch (i + j) % 4 {
				case 0:
					s.ApplyPlayerAction(Spells[j%len(Spells)])
				case 1:
					s.ApplyEnemyAction()
				case 2:
					_ = s.State()
				default:
					if j%50 == 0 {
						s.Reset()
					}
				}
			}
		}(i)
	}
	wg.Wait()
	st := s.State()
	assert.GreaterOrEqual(t, st.Player.HP, 0)
	assert.GreaterOrEqual(t, st.Enemy.HP, 0)
}
