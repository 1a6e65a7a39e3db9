package core

import "strings"

// Product 是目录中一个商品的只读快照，在单次请求内不可变。
// 可选属性（类目/价格/评分）允许缺失：目录数据里的脏数值在召回边界
// 已经降级为 nil / 0，而不是错误，打分侧不需要再做解析。
type Product struct {
	URI         string   `json:"uri"`
	Name        string   `json:"name"`
	CategoryURI string   `json:"category_uri,omitempty"`
	Category    string   `json:"category,omitempty"` // 类目展示名，best-effort join，可能为空
	Price       *float64 `json:"price,omitempty"`
	Rating      *float64 `json:"rating,omitempty"` // 0.0–5.0
	ReviewCount int      `json:"reviewCount"`
}

// BareID 返回 URI 中最后一个 '#' 之后的裸 id。
// 相似度模型按裸 id 建索引，而目录侧使用完整 URI。
func (p *Product) BareID() string {
	if i := strings.LastIndex(p.URI, "#"); i >= 0 {
		return p.URI[i+1:]
	}
	return p.URI
}

// CategoryLower 返回小写类目名，用于与偏好做大小写不敏感匹配。
func (p *Product) CategoryLower() string {
	return strings.ToLower(p.Category)
}
