// Package mabnews 是一个基于多臂老虎机（UCB1 + ε-greedy）的新闻推荐工具包。
//
// 设计要点：
// - 离线训练：历史 (文章, 点击数) 交互回放进 bandit 估计器，每篇文章是一个臂
// - Pipeline-first：推荐通过 Node 串联（Recall → Filter → Rank → ReRank → PostProcess）
// - Labels-first：labels 全链路透传，便于 explain 与观测
package mabnews

import (
	"github.com/rushteam/mabnews/bandit"
	"github.com/rushteam/mabnews/mapping"
	"github.com/rushteam/mabnews/pipeline"
	"github.com/rushteam/mabnews/recommend"
)

// 轻量 facade：便于直接 import "mabnews" 使用核心抽象。
type (
	Pipeline  = pipeline.Pipeline
	Node      = pipeline.Node
	Kind      = pipeline.Kind
	Estimator = bandit.Estimator
	Mapping   = mapping.Mapping
)

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)

var (
	NewEstimator = bandit.New
	BuildMapping = mapping.Build
	Recommend    = recommend.Recommend
)
