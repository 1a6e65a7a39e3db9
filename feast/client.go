// Package feast 封装 Feast Feature Store 的在线特征读取。
//
// 领域层只依赖 Client 接口；GrpcClient 是基于官方 Go SDK
// (github.com/feast-dev/feast/sdk/go) 的基础设施实现。
package feast

import (
	"context"
	"time"
)

// Client 是在线特征读取的领域接口。
// 推荐链路只需要在线特征；训练侧的离线读取不在本服务范围。
type Client interface {
	// GetOnlineFeatures 批量拉取实体的在线特征
	GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error)

	// Close 释放客户端资源
	Close() error
}

// GetOnlineFeaturesRequest 在线特征请求。
type GetOnlineFeaturesRequest struct {
	// Features 特征名称列表，例如 ["product_stats:review_count"]
	Features []string

	// EntityRows 实体行，例如 [{"product_id": "B0001"}]
	EntityRows []map[string]any

	// Project 项目名称（可选，缺省用客户端配置的项目）
	Project string
}

// GetOnlineFeaturesResponse 在线特征响应，每个向量对应一个实体行。
type GetOnlineFeaturesResponse struct {
	FeatureVectors []FeatureVector
}

// FeatureVector 单个实体的特征值集合。
type FeatureVector struct {
	// Values key 为特征名称
	Values map[string]any

	// EntityRow 对应的请求实体行
	EntityRow map[string]any
}

// ClientConfig 客户端配置。
type ClientConfig struct {
	Endpoint string
	Project  string
	Timeout  time.Duration

	// StaticToken 非空时使用静态 Token 认证
	StaticToken string
}

// ClientOption 配置选项。
type ClientOption func(*ClientConfig)

// WithTimeout 设置请求超时。
func WithTimeout(d time.Duration) ClientOption {
	return func(c *ClientConfig) { c.Timeout = d }
}

// WithStaticToken 设置静态 Token 认证。
func WithStaticToken(token string) ClientOption {
	return func(c *ClientConfig) { c.StaticToken = token }
}
