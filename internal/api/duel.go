package api

import (
	"context"

	"github.com/pefman/spell-duel/internal/engine"
	"github.com/pefman/spell-duel/internal/game"
	"github.com/pefman/spell-duel/internal/models"
)

// Autoplay drives a duel from the client side: cast a random spell, let the
// enemy answer, repeat. It stops when either side is at 0 hp or after
// rounds player turns (rounds <= 0 means no limit). onTurn sees every
// outcome. The winner is empty when the round limit was hit first.
func (c *Client) Autoplay(ctx context.Context, src engine.Source, rounds int, onTurn func(models.Outcome)) (models.Side, error) {
	st, err := c.State(ctx)
	if err != nil {
		return "", err
	}
	if st.Turn == models.SideEnemy {
		o, err := c.EnemyTurn(ctx)
		if err != nil {
			return "", err
		}
		report(onTurn, o)
		st = models.State{Player: o.Player, Enemy: o.Enemy, Turn: o.Turn}
	}
	for i := 0; rounds <= 0 || i < rounds; i++ {
		if w := winner(st.Player, st.Enemy); w != "" {
			return w, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		o, err := c.Cast(ctx, engine.Pick(src, game.Spells))
		if err != nil {
			return "", err
		}
		report(onTurn, o)
		if w := winner(o.Player, o.Enemy); w != "" {
			return w, nil
		}
		if o.Turn == models.SideEnemy {
			if o, err = c.EnemyTurn(ctx); err != nil {
				return "", err
			}
			report(onTurn, o)
		}
		st = models.State{Player: o.Player, Enemy: o.Enemy, Turn: o.Turn}
	}
	return winner(st.Player, st.Enemy), nil
}

func winner(p, e models.Character) models.Side {
	switch {
	case e.HP <= 0:
		return models.SidePlayer
	case p.HP <= 0:
		return models.SideEnemy
	}
	return ""
}

func report(fn func(models.Outcome), o models.Outcome) {
	if fn != nil {
		fn(o)
	}
}
