package recall

import (
	"context"

	"github.com/rushteam/prodrec/core"
)

// Source 表示一个可复用的召回源（目录全量/Store 快照/...）。
// 可以被 Fanout 并发 fan-out，也可以单独作为 Node 使用。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
