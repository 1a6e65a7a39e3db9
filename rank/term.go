package rank

import (
	"fmt"
	"math"

	"github.com/rushteam/prodrec/core"
)

// 语义分的固定权重，总和必须为 1.0。
const (
	WeightCategory   = 0.40
	WeightRating     = 0.30
	WeightBudget     = 0.20
	WeightPopularity = 0.10
)

// PopularityPivot 是热度饱和点：评论数达到该值即拿满热度分。
const PopularityPivot = 1000

// Term 是语义分的一个带权求值项：独立求值，输出贡献与可选理由。
// 各项之间无依赖，按固定顺序求值后求和；增删/调权是封闭操作。
type Term interface {
	Name() string

	// Evaluate 返回 (贡献, 理由, 是否参与)。
	// 不参与时贡献为 0 且不产出理由。纯函数，无失败模式。
	Evaluate(p *core.Product, prefs *core.UserPreferences) (float64, string, bool)
}

// DefaultTerms 返回规范的求值序列：类目、评分、预算、热度。
// 理由的输出顺序即该序列顺序。
func DefaultTerms() []Term {
	return []Term{
		&CategoryTerm{Weight: WeightCategory},
		&RatingTerm{Weight: WeightRating},
		&BudgetTerm{Weight: WeightBudget},
		&PopularityTerm{Weight: WeightPopularity, Pivot: PopularityPivot},
	}
}

// Score 按 terms 顺序求和并 clamp 到 [0,1]。
// clamp 是防御性的：按构造总和不会超 1，这里只吸收浮点误差。
func Score(p *core.Product, prefs *core.UserPreferences, terms []Term) (float64, []string) {
	if prefs == nil {
		prefs = core.DefaultPreferences()
	}
	var sum float64
	var reasons []string
	for _, term := range terms {
		contribution, reason, ok := term.Evaluate(p, prefs)
		if !ok {
			continue
		}
		sum += contribution
		if reason != "" {
			reasons = append(reasons, reason)
		}
	}
	return math.Max(0, math.Min(sum, 1)), reasons
}

// CategoryTerm 类目匹配：小写全等命中给满权重，不给部分分。
type CategoryTerm struct {
	Weight float64
}

func (t *CategoryTerm) Name() string { return "category" }

func (t *CategoryTerm) Evaluate(p *core.Product, prefs *core.UserPreferences) (float64, string, bool) {
	cats := prefs.CategorySet()
	if len(cats) == 0 || p.Category == "" || !cats[p.CategoryLower()] {
		return 0, "", false
	}
	return t.Weight, fmt.Sprintf("Matches your %s preference", p.Category), true
}

// RatingTerm 评分：归一到 rating/5 后乘权重。
// 只要有评分就产出理由；达到 min_rating 用 "Highly rated" 措辞。
type RatingTerm struct {
	Weight float64
}

func (t *RatingTerm) Name() string { return "rating" }

func (t *RatingTerm) Evaluate(p *core.Product, prefs *core.UserPreferences) (float64, string, bool) {
	if p.Rating == nil {
		return 0, "", false
	}
	rating := *p.Rating
	norm := math.Max(0, math.Min(rating/5.0, 1))

	reason := fmt.Sprintf("Rated %.1f★", rating)
	if rating >= prefs.MinRating {
		reason = fmt.Sprintf("Highly rated (%.1f★)", rating)
	}
	return t.Weight * norm, reason, true
}

// BudgetTerm 预算：价格与预算都存在时才参与。
//   - 价格不超预算：fit = (budget-price)/max(budget,1)，
//     贡献 = W * min(1, 0.5+fit) —— 在预算内保底半分，余量越大越接近满分
//   - 超预算：near = max(0, 1-超出比例)，贡献 = W * 0.2 * near ——
//     陡峭惩罚，但略微超出仍有一点分
type BudgetTerm struct {
	Weight float64
}

func (t *BudgetTerm) Name() string { return "budget" }

func (t *BudgetTerm) Evaluate(p *core.Product, prefs *core.UserPreferences) (float64, string, bool) {
	if p.Price == nil || prefs.Budget == nil || *prefs.Budget <= 0 {
		return 0, "", false
	}
	price, budget := *p.Price, *prefs.Budget

	if price <= budget {
		fit := math.Max(0, (budget-price)/math.Max(budget, 1))
		contribution := t.Weight * math.Min(1, 0.5+fit)
		return contribution, fmt.Sprintf("Within your budget (≤ %v)", budget), true
	}

	over := (price - budget) / math.Max(budget, 1)
	near := math.Max(0, 1-over)
	contribution := t.Weight * 0.2 * near
	return contribution, fmt.Sprintf("Above budget (%v > %v)", price, budget), true
}

// PopularityTerm 热度：min(评论数/Pivot, 1) 乘权重，0 条评论不参与。
type PopularityTerm struct {
	Weight float64
	Pivot  int
}

func (t *PopularityTerm) Name() string { return "popularity" }

func (t *PopularityTerm) Evaluate(p *core.Product, _ *core.UserPreferences) (float64, string, bool) {
	if p.ReviewCount <= 0 {
		return 0, "", false
	}
	pivot := t.Pivot
	if pivot <= 0 {
		pivot = PopularityPivot
	}
	pop := math.Min(float64(p.ReviewCount)/float64(pivot), 1)
	return t.Weight * pop, fmt.Sprintf("%d review(s)", p.ReviewCount), true
}
