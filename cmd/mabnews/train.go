package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/rushteam/mabnews/dataset"
	"github.com/rushteam/mabnews/model"
	"github.com/rushteam/mabnews/train"
)

func newTrainCmd(g *globalOptions) *cobra.Command {
	var metricsFile string

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the bandit from interaction shards and save a snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := g.open()
			if err != nil {
				return err
			}
			defer rt.Close()

			if metricsFile == "" {
				metricsFile = rt.cfg.Metrics.File
			}
			return runTrain(cmd, rt, metricsFile)
		},
	}
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write training metrics in Prometheus textfile format")
	return cmd
}

func runTrain(cmd *cobra.Command, rt *runtime, metricsFile string) error {
	ctx := cmd.Context()
	start := time.Now()

	rt.log.Info("loading interaction shards", "dir", rt.cfg.Data.TrainDir, "shards", len(rt.cfg.Data.TrainShards))
	tbl, err := dataset.LoadShards(ctx, rt.cfg.Data.TrainDir, rt.cfg.Data.TrainShards)
	if err != nil {
		return err
	}
	records, err := tbl.Interactions()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	trainer := train.NewTrainer(rt.log, train.NewMetrics(reg))
	est, m, report, err := trainer.Fit(records)
	if err != nil {
		return err
	}

	snap := model.NewSnapshot(m, est)
	if err := model.Save(ctx, rt.store, snap); err != nil {
		return err
	}
	rt.log.Info("bandit model trained and saved",
		"version", snap.Version,
		"store", rt.store.Name(),
		"arms", est.NArms(),
		"records", report.Records,
		"applied", report.Applied,
		"skipped", report.Skipped(),
		"unknown_ids", report.UnknownIDs,
		"elapsed", time.Since(start).String(),
	)

	if metricsFile != "" {
		if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "snapshot %s: %d arms, %d/%d records applied, %d pairs, %d unknown ids\n",
		snap.Version, est.NArms(), report.Applied, report.Records, report.Pairs, report.UnknownIDs)
	return nil
}
