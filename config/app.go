package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/mabnews/dataset"
	"github.com/rushteam/mabnews/pipeline"
	"github.com/rushteam/mabnews/postprocess"
)

// App 是 mabnews 命令行的完整配置。
//
// 加载顺序：默认值 → 配置文件（YAML/JSON）→ .env → MABNEWS_* 环境变量，最后统一校验。
type App struct {
	Data      DataConfig      `yaml:"data" json:"data"`
	Store     StoreConfig     `yaml:"store" json:"store"`
	Bandit    BanditConfig    `yaml:"bandit" json:"bandit"`
	Recommend RecommendConfig `yaml:"recommend" json:"recommend"`
	Log       LogConfig       `yaml:"log" json:"log"`
	Metrics   MetricsConfig   `yaml:"metrics" json:"metrics"`
	Pipeline  PipelineConfig  `yaml:"pipeline" json:"pipeline"`
}

type DataConfig struct {
	TrainDir    string   `yaml:"train_dir" json:"train_dir" validate:"required"`
	TrainShards []string `yaml:"train_shards" json:"train_shards" validate:"min=1,dive,required"`
	ItemsDir    string   `yaml:"items_dir" json:"items_dir"`
	ItemShards  []string `yaml:"item_shards" json:"item_shards" validate:"dive,required"`
}

type StoreConfig struct {
	Kind string `yaml:"kind" json:"kind" validate:"oneof=memory file redis sqlite"`
	DSN  string `yaml:"dsn" json:"dsn"`
}

type BanditConfig struct {
	ExplorationRate float64 `yaml:"exploration_rate" json:"exploration_rate" validate:"gte=0,lte=1"`
	Seed            uint64  `yaml:"seed" json:"seed"`
}

type RecommendConfig struct {
	TopN        int    `yaml:"top_n" json:"top_n" validate:"gte=1"`
	Placeholder string `yaml:"placeholder" json:"placeholder"`
}

type LogConfig struct {
	Mode string `yaml:"mode" json:"mode" validate:"omitempty,oneof=dev development prod production nop"`
}

type MetricsConfig struct {
	// File 非空时，train 结束后把指标写成 node_exporter textfile 格式
	File string `yaml:"file" json:"file"`
}

// PipelineConfig 描述排序之后插入的可选节点，结构与 pipeline.Config 相同。
type PipelineConfig struct {
	Name  string                `yaml:"name" json:"name"`
	Nodes []pipeline.NodeConfig `yaml:"nodes" json:"nodes" validate:"dive"`
}

// Default 返回与原始数据目录布局一致的默认配置。
func Default() *App {
	return &App{
		Data: DataConfig{
			TrainDir:    filepath.Join("data", "treino"),
			TrainShards: dataset.ShardNames("treino", "_parte", 1, 5),
			ItemsDir:    filepath.Join("data", "itens"),
			ItemShards:  dataset.ShardNames("itens", "-parte", 1, 2),
		},
		Store: StoreConfig{
			Kind: "file",
			DSN:  filepath.Join("models", "trained_models"),
		},
		Bandit: BanditConfig{
			ExplorationRate: 0.1,
		},
		Recommend: RecommendConfig{
			TopN:        5,
			Placeholder: postprocess.DefaultPlaceholder,
		},
		Log: LogConfig{
			Mode: "development",
		},
	}
}

// Load 加载配置。path 为空时只使用默认值与环境变量。
func Load(path string) (*App, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			err = json.Unmarshal(data, cfg)
		default:
			err = yaml.Unmarshal(data, cfg)
		}
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// .env 不存在时忽略
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *App) applyEnv() error {
	c.Data.TrainDir = getEnv("MABNEWS_TRAIN_DIR", c.Data.TrainDir)
	c.Data.ItemsDir = getEnv("MABNEWS_ITEMS_DIR", c.Data.ItemsDir)
	if v := os.Getenv("MABNEWS_TRAIN_SHARDS"); v != "" {
		c.Data.TrainShards = splitComma(v)
	}
	if v := os.Getenv("MABNEWS_ITEM_SHARDS"); v != "" {
		c.Data.ItemShards = splitComma(v)
	}
	c.Store.Kind = getEnv("MABNEWS_STORE_KIND", c.Store.Kind)
	c.Store.DSN = getEnv("MABNEWS_STORE_DSN", c.Store.DSN)
	c.Log.Mode = getEnv("MABNEWS_LOG_MODE", c.Log.Mode)
	c.Metrics.File = getEnv("MABNEWS_METRICS_FILE", c.Metrics.File)
	c.Recommend.Placeholder = getEnv("MABNEWS_PLACEHOLDER", c.Recommend.Placeholder)

	if v := os.Getenv("MABNEWS_EXPLORATION_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("MABNEWS_EXPLORATION_RATE: %w", err)
		}
		c.Bandit.ExplorationRate = f
	}
	if v := os.Getenv("MABNEWS_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MABNEWS_SEED: %w", err)
		}
		c.Bandit.Seed = n
	}
	if v := os.Getenv("MABNEWS_TOP_N"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MABNEWS_TOP_N: %w", err)
		}
		c.Recommend.TopN = n
	}
	return nil
}

// Validate 校验字段取值并检查 pipeline 节点类型均已注册。
func (c *App) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return ValidatePipelineConfig(c.PipelineConfig())
}

// PipelineConfig 转换为 pipeline.Config，供 NodeFactory 构建节点。
func (c *App) PipelineConfig() *pipeline.Config {
	var pc pipeline.Config
	pc.Pipeline.Name = c.Pipeline.Name
	pc.Pipeline.Nodes = c.Pipeline.Nodes
	return &pc
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
