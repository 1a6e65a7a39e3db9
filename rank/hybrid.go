package rank

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/rushteam/prodrec/core"
	"github.com/rushteam/prodrec/pipeline"
)

// 混合策略的唯一受支持配比：语义分与相似度分各 0.5。
// 刻意不做成配置项——这是产品口径，不是调优参数。
const (
	semanticWeight = 0.5
	mlWeight       = 0.5
)

// similarityRemarkThreshold 是相似度备注的显著性阈值：
// ml 分低于它时视为噪声，不进入可读解释，但仍参与 final 分。
const similarityRemarkThreshold = 0.1

// similarityRemark 是追加到解释里的相似度备注。
const similarityRemark = "Similar to items you viewed/liked"

// HybridNode 完成混合排序的收尾：
//  1. final = 0.5*semantic + 0.5*ml，三个分数四舍五入到 3 位（展示口径）
//  2. 解释 = 语义理由 + （ml 分显著时）相似度备注，"; " 连接
//  3. 按 final 降序稳定排序，同分保持检索顺序
type HybridNode struct{}

func (n *HybridNode) Name() string        { return "rank.hybrid" }
func (n *HybridNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *HybridNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	for _, it := range items {
		if it == nil {
			continue
		}
		final := semanticWeight*it.SemanticScore + mlWeight*it.MLScore

		reasons := it.Reasons
		if it.MLScore > similarityRemarkThreshold {
			reasons = append(append([]string{}, reasons...), similarityRemark)
		}
		it.Explanation = strings.Join(reasons, "; ")

		it.SemanticScore = round3(it.SemanticScore)
		it.MLScore = round3(it.MLScore)
		it.FinalScore = round3(final)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return items[i].FinalScore > items[j].FinalScore
	})
	return items, nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

var _ pipeline.Node = (*HybridNode)(nil)
