package recall

import (
	"context"

	"github.com/rushteam/prodrec/core"
	"github.com/rushteam/prodrec/pipeline"
	"github.com/rushteam/prodrec/pkg/utils"
)

// CatalogRecall 从 core.CandidateSource 取候选商品并包装成 Item。
// 同时实现 Source 和 Node 接口，可以直接在 Pipeline 中使用。
//
// 边界转换在这里完成：商品快照挂到 Item 上，数值属性注入 Features
// （供 CEL 过滤与特征注入节点使用），类目写入 label。
type CatalogRecall struct {
	Source core.CandidateSource

	// Limit 是检索上限。打分成本是 O(候选数 × liked 数)，
	// 必须有界，<= 0 时使用 DefaultLimit。
	Limit int
}

// DefaultLimit 是候选检索的默认上限。
const DefaultLimit = 4000

func (r *CatalogRecall) Name() string        { return "recall.catalog" }
func (r *CatalogRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *CatalogRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。返回顺序即检索顺序。
func (r *CatalogRecall) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Source == nil {
		return nil, nil
	}

	limit := r.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	products, err := r.Source.FetchCandidates(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(products))
	for _, p := range products {
		if p == nil {
			continue
		}
		it := core.NewItem(p)
		it.PutLabel("recall_source", utils.Label{Value: r.Source.Name(), Source: "recall"})
		if p.Category != "" {
			it.PutLabel("category", utils.Label{Value: p.Category, Source: "recall"})
		}
		out = append(out, it)
	}
	return out, nil
}

var _ Source = (*CatalogRecall)(nil)
var _ pipeline.Node = (*CatalogRecall)(nil)
