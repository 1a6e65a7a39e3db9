package config

import (
	"github.com/rushteam/prodrec/core"
	"github.com/rushteam/prodrec/filter"
	"github.com/rushteam/prodrec/pipeline"
	"github.com/rushteam/prodrec/rank"
	"github.com/rushteam/prodrec/recall"
	"github.com/rushteam/prodrec/rerank"
)

// PolicyDeps 是策略装配需要的运行时依赖，由入口注入。
type PolicyDeps struct {
	// Source 候选目录。
	Source core.CandidateSource

	// Similarity 内容相似度模型，nil 时混合策略退化为纯语义分。
	Similarity core.SimilarityScorer

	// CandidateLimit 检索上限，<= 0 用 recall.DefaultLimit。
	CandidateLimit int

	// DefaultK 默认返回条数。
	DefaultK int

	// Enrich 可选的特征注入节点，置于召回之后。
	Enrich pipeline.Node
}

// NewHybridPolicy 装配混合策略：
// 召回 → 特征注入（可选）→ 语义打分 → 相似度打分 → 0.5/0.5 混合重排 → 截断。
func NewHybridPolicy(deps PolicyDeps) *pipeline.Pipeline {
	nodes := []pipeline.Node{
		&recall.CatalogRecall{Source: deps.Source, Limit: deps.CandidateLimit},
	}
	if deps.Enrich != nil {
		nodes = append(nodes, deps.Enrich)
	}
	nodes = append(nodes,
		&rank.SemanticNode{},
		&rank.SimilarityNode{Scorer: deps.Similarity},
		&rank.HybridNode{},
		&rerank.TopNNode{N: deps.DefaultK},
	)
	return &pipeline.Pipeline{Name: "hybrid", Nodes: nodes}
}

// NewSemanticPolicy 装配语义单通道策略：
// 召回 → 特征注入（可选）→ 语义打分 → min_rating 过滤 → 偏好类目优先重排 → 截断。
func NewSemanticPolicy(deps PolicyDeps) *pipeline.Pipeline {
	nodes := []pipeline.Node{
		&recall.CatalogRecall{Source: deps.Source, Limit: deps.CandidateLimit},
	}
	if deps.Enrich != nil {
		nodes = append(nodes, deps.Enrich)
	}
	nodes = append(nodes,
		&rank.SemanticNode{},
		&filter.FilterNode{Filters: []filter.Filter{&filter.MinRatingFilter{}}},
		&rerank.PreferredCategoryFirst{},
		&rerank.TopNNode{N: deps.DefaultK},
	)
	return &pipeline.Pipeline{Name: "semantic", Nodes: nodes}
}

// PolicyRegistry 按名持有已装配的策略。
type PolicyRegistry struct {
	policies map[string]*pipeline.Pipeline

	// DefaultName 未指定策略名时使用。
	DefaultName string
}

// NewPolicyRegistry 装配内置的 hybrid 与 semantic 两条策略，默认 hybrid。
func NewPolicyRegistry(deps PolicyDeps) *PolicyRegistry {
	return &PolicyRegistry{
		policies: map[string]*pipeline.Pipeline{
			"hybrid":   NewHybridPolicy(deps),
			"semantic": NewSemanticPolicy(deps),
		},
		DefaultName: "hybrid",
	}
}

// Get 按名取策略，name 为空时返回默认策略。
func (r *PolicyRegistry) Get(name string) (*pipeline.Pipeline, error) {
	if name == "" {
		name = r.DefaultName
	}
	p, ok := r.policies[name]
	if !ok {
		return nil, core.NewDomainError(core.ModulePolicy, core.ErrorCodeNotFound, "policy: unknown policy "+name)
	}
	return p, nil
}

// Names 返回已注册的策略名。
func (r *PolicyRegistry) Names() []string {
	names := make([]string, 0, len(r.policies))
	for name := range r.policies {
		names = append(names, name)
	}
	return names
}

// Put 注册或覆盖一条策略。
func (r *PolicyRegistry) Put(name string, p *pipeline.Pipeline) {
	if r.policies == nil {
		r.policies = make(map[string]*pipeline.Pipeline)
	}
	r.policies[name] = p
}
