package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rushteam/mabnews/config"
	"github.com/rushteam/mabnews/dataset"
	"github.com/rushteam/mabnews/model"
	"github.com/rushteam/mabnews/postprocess"
	"github.com/rushteam/mabnews/recommend"
)

type recommendOptions struct {
	userID string
	topN   int
}

func newRecommendCmd(g *globalOptions) *cobra.Command {
	opts := &recommendOptions{}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Print a user's history and the recommended unseen articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := g.open()
			if err != nil {
				return err
			}
			defer rt.Close()

			if opts.topN <= 0 {
				opts.topN = rt.cfg.Recommend.TopN
			}
			return runRecommend(cmd, rt, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.userID, "user", "u", "", "user id (required)")
	cmd.Flags().IntVarP(&opts.topN, "top-n", "n", 0, "number of recommendations (default from config)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func runRecommend(cmd *cobra.Command, rt *runtime, opts *recommendOptions) error {
	ctx := cmd.Context()

	users, err := dataset.LoadShards(ctx, rt.cfg.Data.TrainDir, rt.cfg.Data.TrainShards)
	if err != nil {
		return err
	}
	records, err := users.Interactions()
	if err != nil {
		return err
	}
	user, err := dataset.FindUser(records, opts.userID)
	if err != nil {
		return err
	}

	titles := postprocess.TitleMap{}
	if len(rt.cfg.Data.ItemShards) > 0 {
		items, err := dataset.LoadShards(ctx, rt.cfg.Data.ItemsDir, rt.cfg.Data.ItemShards)
		if err != nil {
			return err
		}
		if titles, err = items.Titles(dataset.ColPage, dataset.ColTitle); err != nil {
			return err
		}
	}

	snap, err := model.Load(ctx, rt.store)
	if err != nil {
		return err
	}
	nodes, err := config.BuildNodes(rt.cfg.PipelineConfig())
	if err != nil {
		return err
	}
	rt.log.Debug("snapshot loaded", "version", snap.Version, "trained_at", snap.TrainedAt, "extra_nodes", len(nodes))

	r, err := recommend.New(snap.Estimator, snap.Mapping,
		recommend.WithTitles(titles, rt.cfg.Recommend.Placeholder),
		recommend.WithNodes(nodes...),
	)
	if err != nil {
		return err
	}
	recs, err := r.RecommendTitles(ctx, user.UserID, user.History, opts.topN)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "User history:")
	for _, t := range r.Titles(user.History) {
		fmt.Fprintf(out, "- %s\n", t)
	}
	fmt.Fprintln(out, "\nRecommendations:")
	for _, t := range recs {
		fmt.Fprintf(out, "- %s\n", t)
	}
	return nil
}
