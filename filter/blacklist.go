package filter

import (
	"context"
	"encoding/json"

	"github.com/rushteam/prodrec/core"
)

// BlacklistFilter 过滤下架/封禁商品。名单来源有两个：
// 内存 ID 列表（配置注入）与可选的 Store key（运营侧动态维护）。
type BlacklistFilter struct {
	ItemIDs []string

	// Store 与 Key 可选；Key 对应的值为 JSON 字符串数组。
	Store core.Store
	Key   string
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	for _, id := range f.ItemIDs {
		if item.ID == id {
			return true, nil
		}
	}

	if f.Store != nil && f.Key != "" {
		data, err := f.Store.Get(ctx, f.Key)
		if err != nil {
			// 名单读不到不阻断推荐
			return false, nil
		}
		var ids []string
		if err := json.Unmarshal(data, &ids); err != nil {
			return false, nil
		}
		for _, id := range ids {
			if item.ID == id {
				return true, nil
			}
		}
	}

	return false, nil
}

var _ Filter = (*BlacklistFilter)(nil)
