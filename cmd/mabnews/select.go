package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/rushteam/mabnews/model"
)

type selectOptions struct {
	draws int
	rate  float64
	seed  uint64
}

func newSelectCmd(g *globalOptions) *cobra.Command {
	opts := &selectOptions{}

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Draw arms from the trained policy (epsilon-gated UCB1)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := g.open()
			if err != nil {
				return err
			}
			defer rt.Close()

			if !cmd.Flags().Changed("rate") {
				opts.rate = rt.cfg.Bandit.ExplorationRate
			}
			if !cmd.Flags().Changed("seed") {
				opts.seed = rt.cfg.Bandit.Seed
			}
			return runSelect(cmd, rt, opts)
		},
	}
	cmd.Flags().IntVar(&opts.draws, "draws", 10, "number of arms to draw")
	cmd.Flags().Float64Var(&opts.rate, "rate", 0.1, "exploration rate in [0, 1]")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed")
	return cmd
}

func runSelect(cmd *cobra.Command, rt *runtime, opts *selectOptions) error {
	if opts.draws <= 0 {
		return fmt.Errorf("--draws must be positive, got %d", opts.draws)
	}
	snap, err := model.Load(cmd.Context(), rt.store)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(opts.seed, opts.seed))
	out := cmd.OutOrStdout()
	for i := 0; i < opts.draws; i++ {
		arm := snap.Estimator.SelectArm(rng, opts.rate)
		id, err := snap.Mapping.ID(arm)
		if err != nil {
			return err
		}
		value, _ := snap.Estimator.Value(arm)
		fmt.Fprintf(out, "%d\t%d\t%s\t%.4f\n", i+1, arm, id, value)
	}
	return nil
}
