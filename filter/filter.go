package filter

import (
	"context"

	"github.com/rushteam/prodrec/core"
)

// Filter 判断一个 Item 是否应该被过滤掉。
// 返回 true 表示移除，false 表示保留。
type Filter interface {
	Name() string

	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}
