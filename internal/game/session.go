package game

import (
	"sync"

	"go.uber.org/zap"

	"github.com/pefman/spell-duel/internal/engine"
	"github.com/pefman/spell-duel/internal/models"
)

// Session owns one duel: the player, the enemy and whose turn it is.
// All operations run under a single mutex, so a Session may be shared by
// concurrent handlers. The Source is only touched while the lock is held.
type Session struct {
	mu     sync.Mutex
	src    engine.Source
	log    *zap.Logger
	player models.Character
	enemy  models.Character
	turn   models.Side
}

type Option func(*Session)

// WithLogger sets the logger used for per-action debug lines.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSession returns a duel in its initial state drawing from src.
func NewSession(src engine.Source, opts ...Option) *Session {
	s := &Session{src: src, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	s.reset()
	return s
}

// State returns a snapshot of the duel.
func (s *Session) State() models.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.State{Player: s.player.Clone(), Enemy: s.enemy.Clone(), Turn: s.turn}
}

// Reset restores the initial stats and hands the turn to the player.
func (s *Session) Reset() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.log.Debug("session: reset")
	return s.result(MsgReset, Event{Actor: models.SidePlayer, Action: SpellReset, Reset: true})
}

func (s *Session) reset() {
	s.player, s.enemy, s.turn = initialPlayer(), initialEnemy(), models.SidePlayer
}

// ApplyPlayerAction resolves one player spell. reset is honored on any
// turn; everything else is rejected unless it is the player's turn.
// Unknown spells resolve to nothing but still pass the turn.
func (s *Session) ApplyPlayerAction(spell string) Result {
	if spell == SpellReset {
		return s.Reset()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.turn != models.SidePlayer {
		return s.result(MsgWaitYourTurn, Event{Actor: models.SidePlayer, Action: spell, Rejected: true})
	}
	msg, ev := s.castSpell(spell)
	s.turn = models.SideEnemy
	s.logEvent(ev)
	return s.result(msg, ev)
}

// ApplyEnemyAction lets the enemy pick and resolve one action.
func (s *Session) ApplyEnemyAction() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.turn != models.SideEnemy {
		return s.result(MsgNotEnemyTurn, Event{Actor: models.SideEnemy, Rejected: true})
	}
	msg, ev := s.enemyTurn()
	s.turn = models.SidePlayer
	s.logEvent(ev)
	return s.result(msg, ev)
}

func (s *Session) result(msg string, ev Event) Result {
	return Result{
		Outcome: models.Outcome{Player: s.player.Clone(), Enemy: s.enemy.Clone(), Message: msg, Turn: s.turn},
		Event:   ev,
	}
}

func (s *Session) logEvent(ev Event) {
	s.log.Debug("session: action resolved",
		zap.String("actor", string(ev.Actor)),
		zap.String("action", ev.Action),
		zap.Int("damage", ev.Damage),
		zap.Int("healed", ev.Healed),
		zap.Bool("critical", ev.Critical),
		zap.Bool("missed", ev.Missed),
		zap.Int("player_hp", s.player.HP),
		zap.Int("enemy_hp", s.enemy.HP))
}

// hit lowers hp by dmg, never below zero, and reports whether it hit zero.
func hit(c *models.Character, dmg int) bool {
	before := c.HP
	c.HP = max(0, c.HP-dmg)
	return before > 0 && c.HP == 0
}
