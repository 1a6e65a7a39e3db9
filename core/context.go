package core

import "github.com/rushteam/prodrec/pkg/utils"

// RecommendContext 承载单次请求的用户与场景信息，贯穿整个 Pipeline 透传。
// 目录与相似度模型不放在这里：它们是进程级只读状态，在构建 Node 时显式注入，
// 保持请求上下文只包含会随请求变化的内容。
type RecommendContext struct {
	UserID string
	Scene  string

	// Prefs 是本次请求使用的偏好记录快照；nil 时按默认记录处理。
	Prefs *UserPreferences

	// Labels 是用户级标签，可驱动 Pipeline 行为（新用户、价格敏感等）。
	Labels map[string]utils.Label

	// Params 请求级参数：k、debug、场景参数等。
	Params map[string]any
}

// Preferences 返回偏好记录，nil 时退化为默认记录（未知用户不是错误）。
func (rctx *RecommendContext) Preferences() *UserPreferences {
	if rctx == nil || rctx.Prefs == nil {
		return DefaultPreferences()
	}
	return rctx.Prefs
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}

// Param 按 key 取请求参数，取不到返回 (nil, false)。
func (rctx *RecommendContext) Param(key string) (any, bool) {
	if rctx == nil || rctx.Params == nil {
		return nil, false
	}
	v, ok := rctx.Params[key]
	return v, ok
}
