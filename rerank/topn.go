package rerank

import (
	"context"

	"github.com/rushteam/prodrec/core"
	"github.com/rushteam/prodrec/pipeline"
	"github.com/rushteam/prodrec/pkg/conv"
)

// TopNNode 截取排序后的前 N 个物品。
// 请求可通过 rctx.Params["k"] 覆盖 N（服务层已做上限约束）。
// N <= 0 返回所有物品。
type TopNNode struct {
	// N 默认保留数量。
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if rctx != nil {
		if v, ok := rctx.Param("k"); ok {
			if k, ok := conv.ToInt(v); ok && k > 0 {
				limit = k
			}
		}
	}

	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}

var _ pipeline.Node = (*TopNNode)(nil)
