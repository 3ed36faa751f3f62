package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pefman/spell-duel/internal/api"
	"github.com/pefman/spell-duel/internal/config"
	"github.com/pefman/spell-duel/internal/engine"
	"github.com/pefman/spell-duel/internal/game"
	"github.com/pefman/spell-duel/internal/models"
)

// Build metadata injected via -ldflags at build time
var (
	buildVersion = "dev"
	buildTime    = ""
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var apiBase string
	client := func() *api.Client { return api.NewClient(apiBase) }

	root := &cobra.Command{
		Use:          "duel",
		Short:        "Play a spell duel against a running duel server",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if apiBase != "" {
				return nil
			}
			cfg, err := config.LoadClient()
			if err != nil {
				return err
			}
			apiBase = cfg.APIBase
			return nil
		},
	}
	root.PersistentFlags().StringVar(&apiBase, "api", "", "duel server base URL (default $DUEL_API_BASE or http://127.0.0.1:5000)")

	root.AddCommand(
		&cobra.Command{
			Use:   "state",
			Short: "Show the current duel state",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := client().State(cmd.Context())
				if err != nil {
					return err
				}
				printState(cmd, st.Player, st.Enemy, st.Turn, "")
				return nil
			},
		},
		&cobra.Command{
			Use:       "cast <spell>",
			Short:     "Cast a spell on the player's turn",
			Long:      "Cast one of: " + strings.Join(game.Spells, ", ") + ".",
			Args:      cobra.ExactArgs(1),
			ValidArgs: game.Spells,
			RunE: func(cmd *cobra.Command, args []string) error {
				o, err := client().Cast(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printOutcome(cmd, o)
				return nil
			},
		},
		&cobra.Command{
			Use:   "enemy",
			Short: "Let the enemy take its turn",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				o, err := client().EnemyTurn(cmd.Context())
				if err != nil {
					return err
				}
				printOutcome(cmd, o)
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Restart the duel",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				o, err := client().Reset(cmd.Context())
				if err != nil {
					return err
				}
				printOutcome(cmd, o)
				return nil
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Print battle statistics as JSON",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := client().Stats(cmd.Context())
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			},
		},
		newAutoplayCmd(client),
		&cobra.Command{
			Use:   "version",
			Short: "Print the client version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "duel %s (built %s) %s/%s\n", buildVersion, buildTime, runtime.GOOS, runtime.GOARCH)
			},
		},
	)
	return root
}

func newAutoplayCmd(client func() *api.Client) *cobra.Command {
	var (
		rounds int
		seed   int64
		reset  bool
	)
	cmd := &cobra.Command{
		Use:   "autoplay",
		Short: "Play random spells until one side falls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx := client(), cmd.Context()
			if reset {
				o, err := c.Reset(ctx)
				if err != nil {
					return err
				}
				printOutcome(cmd, o)
			}
			w, err := c.Autoplay(ctx, engine.NewRNG(seed), rounds, func(o models.Outcome) { printOutcome(cmd, o) })
			if err != nil {
				return err
			}
			switch w {
			case models.SidePlayer:
				fmt.Fprintln(cmd.OutOrStdout(), "Victory!")
			case models.SideEnemy:
				fmt.Fprintln(cmd.OutOrStdout(), "Defeat.")
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "No winner after %d rounds.\n", rounds)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&rounds, "rounds", 50, "max player turns (0 = until someone falls)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "spell picker seed (0 = time-seeded)")
	cmd.Flags().BoolVar(&reset, "reset", true, "reset the duel first")
	return cmd
}

func printOutcome(cmd *cobra.Command, o models.Outcome) {
	printState(cmd, o.Player, o.Enemy, o.Turn, o.Message)
}

func printState(cmd *cobra.Command, p, e models.Character, turn models.Side, msg string) {
	out := cmd.OutOrStdout()
	if msg != "" {
		fmt.Fprintln(out, msg)
	}
	fmt.Fprintf(out, "  player hp=%3d atk=%d def=%d crit=%.2f shield=%.1f buffs=%s\n",
		p.HP, p.Attack, p.Defense, p.Crit, p.Shield, formatBuffs(p.Buffs))
	fmt.Fprintf(out, "  enemy  hp=%3d atk=%d def=%d buffs=%s\n", e.HP, e.Attack, e.Defense, formatBuffs(e.Buffs))
	fmt.Fprintf(out, "  turn: %s\n", turn)
}

func formatBuffs(b models.Buffs) string {
	if len(b) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(b))
	for _, k := range []models.BuffKind{models.BuffAttack, models.BuffDefense, models.BuffCrit} {
		if v, ok := b[k]; ok {
			parts = append(parts, fmt.Sprintf("%s+%g", k, v))
		}
	}
	return strings.Join(parts, ",")
}
