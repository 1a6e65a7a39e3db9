package filter

import (
	"context"

	"github.com/rushteam/prodrec/core"
	"github.com/rushteam/prodrec/pkg/dsl"
)

// ExprFilter 用 CEL 表达式筛选物品：表达式为保留条件，
// 求值为 false 的物品被移除。表达式在构造时编译一次。
//
// 示例：
//   - `item.price < 1000.0`
//   - `item.rating >= 4.0 && item.review_count > 100`
//   - `label.recall_source != null`
type ExprFilter struct {
	prg *dsl.Program
}

// NewExprFilter 编译表达式并返回过滤器；表达式非法时返回错误。
func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, core.NewDomainError(core.ModulePolicy, core.ErrorCodeInvalidInput, err.Error())
	}
	return &ExprFilter{prg: prg}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	keep, err := f.prg.EvalBool(item, rctx)
	if err != nil {
		// 单个物品求值失败（如访问缺失字段）不丢弃整个候选集
		return false, err
	}
	return !keep, nil
}

var _ Filter = (*ExprFilter)(nil)
