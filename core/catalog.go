package core

import "context"

// CandidateSource 是候选来源的领域接口：返回最多 limit 个商品快照。
//
// 契约（召回边界负责，打分侧不再容错）：
//   - id/uri 与 name 必填；类目/价格/评分可缺失
//   - 数值字段解析失败降级为 nil/0，从不因此剔除或报错
//   - 类目展示名是 best-effort join，缺失不影响候选资格
//   - 返回顺序即检索顺序，并列分数时排序必须保持该顺序
type CandidateSource interface {
	Name() string
	FetchCandidates(ctx context.Context, limit int) ([]*Product, error)
}
