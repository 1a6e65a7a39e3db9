// Package dsl 提供基于 CEL (Common Expression Language) 的物品筛选表达式。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：item.semantic_score > 0.7 / item.price < 600.0
//   - 逻辑：item.category == "Laptops" && item.rating >= 4.0
//   - 标签：label.recall_source == "catalog.memory"
//   - 偏好：item.category in prefs.preferred_categories
//
// 访问不存在的 label key 会报错，用 label.key != null 检查存在性。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/prodrec/core"
)

var (
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("prefs", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是一条编译后的筛选表达式。编译一次，逐物品求值。
// cel.Program 线程安全，Program 可跨请求复用。
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式。空表达式合法，求值恒为 true。
func Compile(expr string) (*Program, error) {
	if expr == "" {
		return &Program{}, nil
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("dsl: env error: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("dsl: compile %q: %w", expr, issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("dsl: program %q: %w", expr, err)
	}

	return &Program{expr: expr, prg: prg}, nil
}

// Expr 返回编译时的原始表达式。
func (p *Program) Expr() string { return p.expr }

// EvalBool 对单个物品求值，表达式必须返回布尔。
func (p *Program) EvalBool(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	if p.prg == nil {
		return true, nil
	}

	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("dsl: eval %q: %w", p.expr, err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("dsl: expression %q must return boolean, got %T", p.expr, out.Value())
	}
	return result, nil
}

func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any, len(item.Labels))
	for k, v := range item.Labels {
		labels[k] = v.Value
	}

	itemVars := map[string]any{
		"id":             item.ID,
		"semantic_score": item.SemanticScore,
		"ml_score":       item.MLScore,
		"final_score":    item.FinalScore,
	}
	if p := item.Product; p != nil {
		itemVars["name"] = p.Name
		itemVars["category"] = p.Category
		itemVars["review_count"] = p.ReviewCount
		if p.Price != nil {
			itemVars["price"] = *p.Price
		}
		if p.Rating != nil {
			itemVars["rating"] = *p.Rating
		}
	}

	input := map[string]any{
		"item":  itemVars,
		"label": labels,
	}

	if rctx != nil {
		prefs := rctx.Preferences()
		prefVars := map[string]any{
			"preferred_categories": prefs.PreferredCategories,
			"preferred_brands":     prefs.PreferredBrands,
			"min_rating":           prefs.MinRating,
			"liked_items":          prefs.LikedItems,
		}
		if prefs.Budget != nil {
			prefVars["budget"] = *prefs.Budget
		}
		input["prefs"] = prefVars
		input["rctx"] = map[string]any{
			"user_id": rctx.UserID,
			"scene":   rctx.Scene,
			"params":  rctx.Params,
		}
	}
	return input
}
