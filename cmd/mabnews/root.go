package main

import (
	"github.com/spf13/cobra"

	"github.com/rushteam/mabnews/config"
	"github.com/rushteam/mabnews/config/builders"
	"github.com/rushteam/mabnews/core"
	"github.com/rushteam/mabnews/pkg/logger"
	"github.com/rushteam/mabnews/store"
)

type globalOptions struct {
	configPath string
	logMode    string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:   "mabnews",
		Short: "Multi-armed bandit news recommender",
		Long: `mabnews replays historical (article, clicks) interactions into a UCB1 bandit
estimator, persists the trained snapshot and recommends unseen articles ranked
by their estimated mean reward.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (YAML or JSON)")
	cmd.PersistentFlags().StringVar(&opts.logMode, "log-mode", "", "log mode: development, production or nop")

	cmd.AddCommand(newTrainCmd(opts))
	cmd.AddCommand(newRecommendCmd(opts))
	cmd.AddCommand(newSelectCmd(opts))
	return cmd
}

// runtime 是一次命令执行所需的依赖。
type runtime struct {
	cfg   *config.App
	log   *logger.Logger
	store core.Store
}

func (o *globalOptions) open() (*runtime, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logMode != "" {
		cfg.Log.Mode = o.logMode
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.Store.Kind, cfg.Store.DSN)
	if err != nil {
		log.Sync()
		return nil, err
	}
	// 配置中的黑名单过滤可从快照所在的 Store 读取
	config.Register("filter", builders.FilterBuilder(st))

	log.Debug("runtime ready", "store", st.Name(), "config", o.configPath)
	return &runtime{cfg: cfg, log: log, store: st}, nil
}

func (r *runtime) Close() {
	if err := r.store.Close(); err != nil {
		r.log.Warn("close store", "error", err)
	}
	r.log.Sync()
}
