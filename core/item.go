package core

import "github.com/rushteam/prodrec/pkg/utils"

// Item 是推荐链路中的统一承载结构：商品快照、各阶段分数、理由与标签。
// 每次请求都新建，从不持久化。
type Item struct {
	// ID 是相似度模型使用的裸 id（URI 的 '#' 后缀）。
	ID      string
	Product *Product

	// SemanticScore / MLScore / FinalScore 均在 [0,1]。
	// FinalScore 固定为 0.5*SemanticScore + 0.5*MLScore。
	SemanticScore float64
	MLScore       float64
	FinalScore    float64

	// Reasons 按固定求值顺序排列（类目、评分、预算、热度）。
	// 相似度备注只追加到 Explanation，不写回 Reasons。
	Reasons     []string
	Explanation string

	// Features 为数值特征（目录派生或 Feast 在线特征），供扩展排序模型使用。
	Features map[string]float64

	Labels map[string]utils.Label
}

func NewItem(p *Product) *Item {
	return &Item{
		ID:       p.BareID(),
		Product:  p,
		Features: make(map[string]float64),
		Labels:   make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
