package recall

import (
	"context"

	"github.com/rushteam/prodrec/core"
	"github.com/rushteam/prodrec/pipeline"
	"github.com/rushteam/prodrec/pkg/utils"
)

// PopularRecall 从有序集合召回运营维护的热门商品（按分数降序）。
// 商品快照从目录按裸 id 反查，目录里不存在的 id 跳过。
// 通常作为 Fanout 的次级源，给目录全量召回补充热门位。
type PopularRecall struct {
	Store core.KeyValueStore

	// Key 有序集合的 key。
	Key string

	// Lookup 按裸 id 反查商品快照（通常是 *catalog.Catalog 的 Get）。
	Lookup func(id string) *core.Product

	// Limit 召回条数，<= 0 时取 DefaultPopularLimit。
	Limit int
}

// DefaultPopularLimit 热门召回的默认条数。
const DefaultPopularLimit = 100

func (r *PopularRecall) Name() string        { return "recall.popular" }
func (r *PopularRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *PopularRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *PopularRecall) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Store == nil || r.Key == "" || r.Lookup == nil {
		return nil, nil
	}

	limit := r.Limit
	if limit <= 0 {
		limit = DefaultPopularLimit
	}

	ids, err := r.Store.ZRange(ctx, r.Key, 0, int64(limit-1))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		p := r.Lookup(id)
		if p == nil {
			continue
		}
		it := core.NewItem(p)
		it.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

var _ Source = (*PopularRecall)(nil)
var _ pipeline.Node = (*PopularRecall)(nil)
