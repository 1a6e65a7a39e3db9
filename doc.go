// Package prodrec 是一个商品推荐服务工具包。
//
// 设计要点：
// - Pipeline-first: 推荐策略通过 Node 串联（Recall → Filter → Rank → ReRank）
// - 双通道打分: 规则语义分（类目/评分/预算/热度）+ 内容相似度分，0.5/0.5 混合
// - 可解释: 每个结果携带按求值顺序排列的 reasons 与拼接后的 explanation
// - 策略可插拔: hybrid / semantic 两条内置策略，按名选择，自定义 Node 可扩展
package prodrec

import "github.com/rushteam/prodrec/pipeline"

// 轻量 facade：便于直接 import 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
