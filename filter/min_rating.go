package filter

import (
	"context"

	"github.com/rushteam/prodrec/core"
)

// MinRatingFilter 按用户的 min_rating 偏好过滤低评分物品。
// min_rating 为 0 时不过滤；无评分视作 0 分，因此 min_rating > 0 会
// 连带过滤掉无评分物品。
type MinRatingFilter struct{}

func (f *MinRatingFilter) Name() string {
	return "filter.min_rating"
}

func (f *MinRatingFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if rctx == nil || item.Product == nil {
		return false, nil
	}

	minRating := rctx.Preferences().MinRating
	if minRating <= 0 {
		return false, nil
	}

	var rating float64
	if item.Product.Rating != nil {
		rating = *item.Product.Rating
	}
	return rating < minRating, nil
}

var _ Filter = (*MinRatingFilter)(nil)
