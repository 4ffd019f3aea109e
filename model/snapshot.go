// Package model 负责训练产物（估计器 + 映射）的持久化。
//
// 快照以三个 key 写入 core.Store：
//
//	mab:mapping    {"articleId": armIndex, ...}
//	mab:estimator  {"counts": [...], "values": [...]}
//	mab:meta       {"version": "...", "trained_at": "...", "n_arms": N}
//
// 三个 key 通过一次 BatchSet 写入，读取时要求三者齐全且臂数一致。
package model

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rushteam/mabnews/bandit"
	"github.com/rushteam/mabnews/core"
	"github.com/rushteam/mabnews/mapping"
)

const (
	KeyMapping   = "mab:mapping"
	KeyEstimator = "mab:estimator"
	KeyMeta      = "mab:meta"
)

// Snapshot 是一次训练的完整产物。
type Snapshot struct {
	Version   string
	TrainedAt time.Time
	Mapping   *mapping.Mapping
	Estimator *bandit.Estimator
}

type meta struct {
	Version   string    `json:"version"`
	TrainedAt time.Time `json:"trained_at"`
	NArms     int       `json:"n_arms"`
}

// NewSnapshot 为训练结果生成一个新版本号。
func NewSnapshot(m *mapping.Mapping, est *bandit.Estimator) *Snapshot {
	return &Snapshot{
		Version:   uuid.NewString(),
		TrainedAt: time.Now().UTC(),
		Mapping:   m,
		Estimator: est,
	}
}

// Save 把快照写入 store。
func Save(ctx context.Context, s core.Store, snap *Snapshot) error {
	if s == nil || snap == nil || snap.Mapping == nil || snap.Estimator == nil {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidArgument,
			"model: store, mapping and estimator are required")
	}
	if snap.Mapping.Len() != snap.Estimator.NArms() {
		return core.Errorf(core.ModuleModel, core.ErrorCodeInvalidArgument,
			"model: mapping has %d articles, estimator has %d arms", snap.Mapping.Len(), snap.Estimator.NArms())
	}
	if snap.Version == "" {
		snap.Version = uuid.NewString()
	}
	if snap.TrainedAt.IsZero() {
		snap.TrainedAt = time.Now().UTC()
	}

	mappingJSON, err := json.Marshal(snap.Mapping)
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}
	estimatorJSON, err := json.Marshal(snap.Estimator.State())
	if err != nil {
		return fmt.Errorf("marshal estimator: %w", err)
	}
	metaJSON, err := json.Marshal(meta{
		Version:   snap.Version,
		TrainedAt: snap.TrainedAt,
		NArms:     snap.Estimator.NArms(),
	})
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}

	if err := s.BatchSet(ctx, map[string][]byte{
		KeyMapping:   mappingJSON,
		KeyEstimator: estimatorJSON,
		KeyMeta:      metaJSON,
	}); err != nil {
		return fmt.Errorf("save snapshot to %s store: %w", s.Name(), err)
	}
	return nil
}

// Load 从 store 读取快照。任一 key 缺失返回 NOT_FOUND。
func Load(ctx context.Context, s core.Store) (*Snapshot, error) {
	if s == nil {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidArgument, "model: store is required")
	}
	kvs, err := s.BatchGet(ctx, []string{KeyMapping, KeyEstimator, KeyMeta})
	if err != nil {
		return nil, fmt.Errorf("load snapshot from %s store: %w", s.Name(), err)
	}
	for _, k := range []string{KeyMapping, KeyEstimator, KeyMeta} {
		if _, ok := kvs[k]; !ok {
			return nil, core.Errorf(core.ModuleModel, core.ErrorCodeNotFound,
				"model: key %s not found in %s store, run train first", k, s.Name())
		}
	}

	var m mapping.Mapping
	if err := json.Unmarshal(kvs[KeyMapping], &m); err != nil {
		return nil, core.Wrap(core.ModuleModel, core.ErrorCodeInvalidInput, "model: decode mapping", err)
	}
	var state bandit.State
	if err := json.Unmarshal(kvs[KeyEstimator], &state); err != nil {
		return nil, core.Wrap(core.ModuleModel, core.ErrorCodeInvalidInput, "model: decode estimator", err)
	}
	est, err := bandit.FromState(state)
	if err != nil {
		return nil, core.Wrap(core.ModuleModel, core.ErrorCodeInvalidInput, "model: restore estimator", err)
	}
	var md meta
	if err := json.Unmarshal(kvs[KeyMeta], &md); err != nil {
		return nil, core.Wrap(core.ModuleModel, core.ErrorCodeInvalidInput, "model: decode meta", err)
	}

	if m.Len() != est.NArms() {
		return nil, core.Errorf(core.ModuleModel, core.ErrorCodeInvalidInput,
			"model: mapping has %d articles, estimator has %d arms", m.Len(), est.NArms())
	}

	return &Snapshot{
		Version:   md.Version,
		TrainedAt: md.TrainedAt,
		Mapping:   &m,
		Estimator: est,
	}, nil
}
