package server

import "github.com/rushteam/prodrec/core"

// recommendationDTO 是推荐结果的对外形态。
// 混合策略输出全部分数；语义策略不产出 ml/final，两个字段省略。
type recommendationDTO struct {
	URI         string   `json:"uri"`
	Name        string   `json:"name"`
	CategoryURI *string  `json:"category_uri"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Rating      *float64 `json:"rating"`
	ReviewCount int      `json:"reviewCount"`

	SemanticScore float64  `json:"semantic_score"`
	Reasons       []string `json:"reasons"`
	MLScore       *float64 `json:"ml_score,omitempty"`
	FinalScore    *float64 `json:"final_score,omitempty"`
	Explanation   string   `json:"explanation"`
}

func toDTO(it *core.Item, withBlend bool) recommendationDTO {
	dto := recommendationDTO{
		SemanticScore: it.SemanticScore,
		Reasons:       it.Reasons,
		Explanation:   it.Explanation,
	}
	if dto.Reasons == nil {
		dto.Reasons = []string{}
	}
	if withBlend {
		ml, final := it.MLScore, it.FinalScore
		dto.MLScore = &ml
		dto.FinalScore = &final
	}

	p := it.Product
	if p == nil {
		return dto
	}
	dto.URI = p.URI
	dto.Name = p.Name
	dto.ReviewCount = p.ReviewCount
	dto.Price = p.Price
	dto.Rating = p.Rating
	if p.CategoryURI != "" {
		uri := p.CategoryURI
		dto.CategoryURI = &uri
	}
	if p.Category != "" {
		cat := p.Category
		dto.Category = &cat
	}
	return dto
}

func toDTOs(items []*core.Item, withBlend bool) []recommendationDTO {
	out := make([]recommendationDTO, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, toDTO(it, withBlend))
	}
	return out
}

// preferencesDTO 是偏好读写响应。
type preferencesDTO struct {
	User        string                `json:"user"`
	Preferences *core.UserPreferences `json:"preferences"`
}

// setPreferencesRequest 是 POST /preferences 的请求体：
// user 之外的字段都是可选的部分更新。
type setPreferencesRequest struct {
	User string `json:"user"`
	core.PreferencePatch
}

type errorDTO struct {
	Error string `json:"error"`
}
