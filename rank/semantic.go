package rank

import (
	"context"
	"strings"

	"github.com/rushteam/prodrec/core"
	"github.com/rushteam/prodrec/pipeline"
	"github.com/rushteam/prodrec/pkg/utils"
)

// SemanticNode 是规则语义打分 Node：对每个候选独立求值各 Term，
// 写入 SemanticScore 与按求值顺序排列的 Reasons。不排序——排序属于
// 各策略自己的重排节点。
type SemanticNode struct {
	// Terms 为空时使用 DefaultTerms()。
	Terms []Term
}

func (n *SemanticNode) Name() string        { return "rank.semantic" }
func (n *SemanticNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *SemanticNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	terms := n.Terms
	if len(terms) == 0 {
		terms = DefaultTerms()
	}
	prefs := rctx.Preferences()

	for _, it := range items {
		if it == nil || it.Product == nil {
			continue
		}
		score, reasons := Score(it.Product, prefs, terms)
		it.SemanticScore = score
		it.Reasons = reasons
		it.Explanation = strings.Join(reasons, "; ")
		it.PutLabel("rank_model", utils.Label{Value: "semantic", Source: "rank"})
	}
	return items, nil
}

var _ pipeline.Node = (*SemanticNode)(nil)
