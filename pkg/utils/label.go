package utils

// Label 是推荐链路中的解释与追踪单元：每个阶段都可以给候选打标，
// 最终用于 explain 输出与策略观测。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / filter / rank / rerank ...
}

// MergeLabel 合并同名 Label，默认策略是"保留历史、可追踪"：
// - Value 以 '|' 累积
// - Source 以 ',' 累积
// 需要覆盖语义的场景请在上层自行处理。
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "":
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}
