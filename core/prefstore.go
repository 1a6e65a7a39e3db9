package core

import "context"

// PreferenceStore 是偏好记录存储的领域接口。
//
// 契约：
//   - Load 永不因"用户不存在"失败：未知用户返回默认记录
//   - Save 是整条记录的 read-merge-write：patch 的非 nil 字段覆盖，
//     其余字段保留；实现必须对同一用户的写入做串行化，
//     避免并发合并互相丢失更新
type PreferenceStore interface {
	Load(ctx context.Context, userID string) (*UserPreferences, error)
	Save(ctx context.Context, userID string, patch *PreferencePatch) (*UserPreferences, error)
}
