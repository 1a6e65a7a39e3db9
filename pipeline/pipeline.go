package pipeline

import (
	"context"

	"github.com/rushteam/prodrec/core"
)

// Pipeline 是核心抽象：把一条推荐策略拆成可组合的 Node 链。
// 状态机是线性的：Recall → Filter → Rank → ReRank，跑完即终止，无回跳。
type Pipeline struct {
	// Name 是策略名（如 "hybrid" / "semantic"），用于按名选择与观测。
	Name  string
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
