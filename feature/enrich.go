// Package feature 提供候选物品的特征注入。
package feature

import (
	"context"
	"math"

	"github.com/rushteam/prodrec/core"
	"github.com/rushteam/prodrec/feast"
	"github.com/rushteam/prodrec/pipeline"
	"github.com/rushteam/prodrec/pkg/conv"
)

// EnrichNode 为候选物品注入数值特征：
//  1. 目录派生特征（价格、评分、评论数、热度），始终可用
//  2. Feast 在线特征（可选），按 EntityKey 批量拉取
//
// Feast 拉取失败时只保留目录特征，不中断推荐链路。
type EnrichNode struct {
	// Feast 在线特征客户端，nil 时只注入目录特征。
	Feast feast.Client

	// FeatureRefs 要拉取的 Feast 特征，如 ["product_stats:view_count"]。
	FeatureRefs []string

	// EntityKey 实体键名，默认 "product_id"。
	EntityKey string
}

const defaultEntityKey = "product_id"

func (n *EnrichNode) Name() string {
	return "feature.enrich"
}

func (n *EnrichNode) Kind() pipeline.Kind {
	return pipeline.KindPostProcess
}

func (n *EnrichNode) Process(
	ctx context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	for _, it := range items {
		if it == nil {
			continue
		}
		if it.Features == nil {
			it.Features = make(map[string]float64)
		}
		catalogFeatures(it)
	}

	if n.Feast != nil && len(n.FeatureRefs) > 0 {
		// 在线特征是增强信号，失败时静默降级
		_ = n.hydrateFromFeast(ctx, items)
	}
	return items, nil
}

func catalogFeatures(it *core.Item) {
	p := it.Product
	if p == nil {
		return
	}
	if p.Price != nil {
		it.Features["item_price"] = *p.Price
	}
	if p.Rating != nil {
		it.Features["item_rating"] = *p.Rating
	}
	if p.ReviewCount > 0 {
		it.Features["item_review_count"] = float64(p.ReviewCount)
		it.Features["item_popularity"] = math.Min(float64(p.ReviewCount)/1000.0, 1)
	}
}

func (n *EnrichNode) hydrateFromFeast(ctx context.Context, items []*core.Item) error {
	entityKey := n.EntityKey
	if entityKey == "" {
		entityKey = defaultEntityKey
	}

	rows := make([]map[string]any, 0, len(items))
	idx := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil || it.ID == "" {
			continue
		}
		rows = append(rows, map[string]any{entityKey: it.ID})
		idx = append(idx, it)
	}
	if len(rows) == 0 {
		return nil
	}

	resp, err := n.Feast.GetOnlineFeatures(ctx, &feast.GetOnlineFeaturesRequest{
		Features:   n.FeatureRefs,
		EntityRows: rows,
	})
	if err != nil {
		return err
	}
	if len(resp.FeatureVectors) != len(idx) {
		return core.NewDomainError(core.ModuleFeature, core.ErrorCodeInternalError, "feature: vector count mismatch")
	}

	for i, vec := range resp.FeatureVectors {
		for name, raw := range vec.Values {
			if f, ok := conv.ToFloat64(raw); ok {
				idx[i].Features[name] = f
			}
		}
	}
	return nil
}

var _ pipeline.Node = (*EnrichNode)(nil)
