package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/prodrec/core"
)

// StoreAdapter 把目录快照发布到 core.Store（Redis 等），
// 并以 core.CandidateSource 的形式读回。
//
// key 布局：
//   - 候选 id 列表：{KeyPrefix}:items（JSON 数组，保持检索顺序）
//   - 单个商品：  {KeyPrefix}:item:{id}（JSON）
//
// 用途：多实例部署时由一个实例（或离线任务）发布快照，其余实例直接读。
type StoreAdapter struct {
	store     core.Store
	KeyPrefix string
}

// NewStoreAdapter 创建基于 core.Store 的目录适配器。
func NewStoreAdapter(s core.Store, keyPrefix string) *StoreAdapter {
	if keyPrefix == "" {
		keyPrefix = "catalog"
	}
	return &StoreAdapter{store: s, KeyPrefix: keyPrefix}
}

func (a *StoreAdapter) Name() string { return "catalog.store" }

func (a *StoreAdapter) itemsKey() string          { return a.KeyPrefix + ":items" }
func (a *StoreAdapter) itemKey(id string) string  { return a.KeyPrefix + ":item:" + id }

// Publish 将目录整体写入 Store，覆盖旧快照。
func (a *StoreAdapter) Publish(ctx context.Context, c *Catalog) error {
	products := c.Products()
	ids := make([]string, 0, len(products))
	kvs := make(map[string][]byte, len(products))
	for _, p := range products {
		id := p.BareID()
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("catalog: marshal product %s: %w", id, err)
		}
		ids = append(ids, id)
		kvs[a.itemKey(id)] = data
	}

	if err := a.store.BatchSet(ctx, kvs); err != nil {
		return fmt.Errorf("catalog: publish products: %w", err)
	}
	idsData, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("catalog: marshal ids: %w", err)
	}
	if err := a.store.Set(ctx, a.itemsKey(), idsData); err != nil {
		return fmt.Errorf("catalog: publish ids: %w", err)
	}
	return nil
}

// FetchCandidates 从 Store 读回最多 limit 个候选，保持发布时的顺序。
// 单个商品缺失或反序列化失败时跳过该条，不中断整体。
func (a *StoreAdapter) FetchCandidates(ctx context.Context, limit int) ([]*core.Product, error) {
	data, err := a.store.Get(ctx, a.itemsKey())
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog: load ids: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("catalog: parse ids: %w", err)
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = a.itemKey(id)
	}
	kvs, err := a.store.BatchGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("catalog: load products: %w", err)
	}

	out := make([]*core.Product, 0, len(ids))
	for _, key := range keys {
		raw, ok := kvs[key]
		if !ok {
			continue
		}
		var p core.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			continue
		}
		out = append(out, &p)
	}
	return out, nil
}

var _ core.CandidateSource = (*StoreAdapter)(nil)
