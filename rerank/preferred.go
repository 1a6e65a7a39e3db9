package rerank

import (
	"context"
	"sort"
	"strings"

	"github.com/rushteam/prodrec/core"
	"github.com/rushteam/prodrec/pipeline"
)

// PreferredCategoryFirst 是语义单通道策略的重排节点：
// 按 SemanticScore 降序排序，同分时偏好类目命中的物品靠前，
// 其余同分保持检索顺序。不写 FinalScore——该策略对外只暴露语义分。
type PreferredCategoryFirst struct{}

func (n *PreferredCategoryFirst) Name() string {
	return "rerank.preferred_first"
}

func (n *PreferredCategoryFirst) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *PreferredCategoryFirst) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	var cats map[string]bool
	if rctx != nil {
		cats = rctx.Preferences().CategorySet()
	}

	preferred := func(it *core.Item) bool {
		if it == nil || it.Product == nil || len(cats) == 0 {
			return false
		}
		return cats[strings.ToLower(it.Product.Category)]
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		if items[i].SemanticScore != items[j].SemanticScore {
			return items[i].SemanticScore > items[j].SemanticScore
		}
		return preferred(items[i]) && !preferred(items[j])
	})
	return items, nil
}

var _ pipeline.Node = (*PreferredCategoryFirst)(nil)
