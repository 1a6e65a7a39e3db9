package core

// SimilarityScorer 是内容相似度的领域接口："某商品与一组已喜欢商品有多相似"。
//
// 契约（纯函数，无失败模式）：
//   - 返回值在 [0,1]
//   - 模型缺失、likedIDs 为空、itemID 未知，一律返回 0，不是错误
//   - likedIDs 中的未知 id 被跳过；结果对 likedIDs 的顺序不敏感
type SimilarityScorer interface {
	Name() string
	Score(itemID string, likedIDs []string) float64
}
