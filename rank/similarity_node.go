package rank

import (
	"context"

	"github.com/rushteam/prodrec/core"
	"github.com/rushteam/prodrec/pipeline"
	"github.com/rushteam/prodrec/pkg/utils"
)

// SimilarityNode 计算内容相似度分：候选与用户 liked_items 的平均相似度。
// Scorer 缺失时所有候选都得 0（模型缺失是降级态，不是错误）。
type SimilarityNode struct {
	Scorer core.SimilarityScorer
}

func (n *SimilarityNode) Name() string        { return "rank.similarity" }
func (n *SimilarityNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *SimilarityNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	liked := rctx.Preferences().LikedItems

	for _, it := range items {
		if it == nil {
			continue
		}
		if n.Scorer == nil {
			it.MLScore = 0
			continue
		}
		it.MLScore = n.Scorer.Score(it.ID, liked)
		it.PutLabel("ml_model", utils.Label{Value: n.Scorer.Name(), Source: "rank"})
	}
	return items, nil
}

var _ pipeline.Node = (*SimilarityNode)(nil)
