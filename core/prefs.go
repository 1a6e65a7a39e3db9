package core

import "strings"

// UserPreferences 是单个用户的偏好记录，推荐输入的唯一可变来源。
// 首次读取时惰性创建默认记录；写入只支持部分合并（见 PreferencePatch），
// 从不整体替换。
type UserPreferences struct {
	// PreferredCategories 与类目名做大小写不敏感匹配。
	PreferredCategories []string `json:"preferred_categories"`
	// Budget 可选正数；nil 表示未设置，预算项不参与打分。
	Budget *float64 `json:"budget"`
	MinRating float64 `json:"min_rating"`
	// PreferredBrands 目前不参与打分，但属于记录的一部分。
	PreferredBrands []string `json:"preferred_brands"`
	// LikedItems 仅供相似度模型使用，按加入顺序保存裸 id。
	LikedItems []string `json:"liked_items"`
}

// DefaultPreferences 返回未知用户的默认记录。
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		PreferredCategories: []string{},
		MinRating:           0.0,
		PreferredBrands:     []string{},
		LikedItems:          []string{},
	}
}

// CategorySet 返回小写类目集合，用于 O(1) 匹配。
func (p *UserPreferences) CategorySet() map[string]bool {
	if len(p.PreferredCategories) == 0 {
		return nil
	}
	set := make(map[string]bool, len(p.PreferredCategories))
	for _, c := range p.PreferredCategories {
		if c == "" {
			continue
		}
		set[strings.ToLower(c)] = true
	}
	return set
}

// PreferencePatch 是偏好的部分更新：nil 字段保留原值，非 nil 字段整体覆盖。
// 同一个 patch 重复应用是幂等的。
type PreferencePatch struct {
	PreferredCategories *[]string `json:"preferred_categories,omitempty"`
	Budget              *float64  `json:"budget,omitempty"`
	MinRating           *float64  `json:"min_rating,omitempty"`
	PreferredBrands     *[]string `json:"preferred_brands,omitempty"`
	LikedItems          *[]string `json:"liked_items,omitempty"`
}

// Apply 将 patch 合并到记录上。
func (p *UserPreferences) Apply(patch *PreferencePatch) {
	if patch == nil {
		return
	}
	if patch.PreferredCategories != nil {
		p.PreferredCategories = *patch.PreferredCategories
	}
	if patch.Budget != nil {
		p.Budget = patch.Budget
	}
	if patch.MinRating != nil {
		p.MinRating = *patch.MinRating
	}
	if patch.PreferredBrands != nil {
		p.PreferredBrands = *patch.PreferredBrands
	}
	if patch.LikedItems != nil {
		p.LikedItems = *patch.LikedItems
	}
}
