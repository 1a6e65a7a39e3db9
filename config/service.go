package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ServiceConfig 是服务进程的启动配置。
// 来源优先级：环境变量 > YAML 文件 > 默认值。
type ServiceConfig struct {
	// Addr HTTP 监听地址。
	Addr string `yaml:"addr"`

	// CatalogCSV 商品目录 CSV 路径。
	CatalogCSV string `yaml:"catalog_csv"`

	// SimilarityArtifact 相似度模型 JSON 路径，缺失时服务降级运行。
	SimilarityArtifact string `yaml:"similarity_artifact"`

	// Store 后端："memory" 或 "redis"。
	Store     string `yaml:"store"`
	RedisAddr string `yaml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db"`

	// PrefsKeyPrefix 偏好记录的存储 key 前缀。
	PrefsKeyPrefix string `yaml:"prefs_key_prefix"`

	// CandidateLimit 候选检索上限。
	CandidateLimit int `yaml:"candidate_limit"`

	// DefaultK / MaxK 返回条数的默认值与硬上限。
	DefaultK int `yaml:"default_k"`
	MaxK     int `yaml:"max_k"`

	// Feast 在线特征（可选，Host 为空时不启用）。
	Feast FeastConfig `yaml:"feast"`
}

// FeastConfig 是 Feast 在线特征的接入配置。
type FeastConfig struct {
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	Project  string   `yaml:"project"`
	Features []string `yaml:"features"`
}

// DefaultServiceConfig 返回可直接运行的默认配置。
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		Addr:               ":8080",
		CatalogCSV:         "data/products.csv",
		SimilarityArtifact: "data/similarity.json",
		Store:              "memory",
		RedisAddr:          "localhost:6379",
		PrefsKeyPrefix:     "prodrec:prefs",
		CandidateLimit:     4000,
		DefaultK:           10,
		MaxK:               50,
	}
}

// LoadService 读取 YAML 配置并应用环境变量覆盖。
// path 为空时只用默认值加环境变量。
func LoadService(path string) (*ServiceConfig, error) {
	cfg := DefaultServiceConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *ServiceConfig) {
	if v := os.Getenv("PRODREC_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("PRODREC_CATALOG_CSV"); v != "" {
		cfg.CatalogCSV = v
	}
	if v := os.Getenv("PRODREC_SIMILARITY_ARTIFACT"); v != "" {
		cfg.SimilarityArtifact = v
	}
	if v := os.Getenv("PRODREC_STORE"); v != "" {
		cfg.Store = v
	}
	if v := os.Getenv("PRODREC_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("PRODREC_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = db
		}
	}
	if v := os.Getenv("PRODREC_FEAST_HOST"); v != "" {
		cfg.Feast.Host = v
	}
}
