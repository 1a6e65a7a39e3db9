package config

import (
	"fmt"

	"github.com/rushteam/prodrec/filter"
	"github.com/rushteam/prodrec/pipeline"
	"github.com/rushteam/prodrec/pkg/conv"
	"github.com/rushteam/prodrec/rank"
	"github.com/rushteam/prodrec/rerank"
)

func init() {
	Register("rank.semantic", BuildSemanticNode)
	Register("rank.hybrid", BuildHybridNode)
	Register("rerank.topn", BuildTopNNode)
	Register("rerank.preferred_first", BuildPreferredFirstNode)
	Register("filter", BuildFilterNode)
	Register("filter.expr", BuildExprFilterNode)
}

func BuildSemanticNode(_ map[string]any) (pipeline.Node, error) {
	return &rank.SemanticNode{}, nil
}

func BuildHybridNode(_ map[string]any) (pipeline.Node, error) {
	return &rank.HybridNode{}, nil
}

func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
}

func BuildPreferredFirstNode(_ map[string]any) (pipeline.Node, error) {
	return &rerank.PreferredCategoryFirst{}, nil
}

// BuildFilterNode 从配置构建组合过滤节点。支持的子项：
//
//	filters:
//	  - type: min_rating
//	  - type: blacklist
//	    ids: ["B0001"]
//	  - type: expr
//	    expr: 'item.price < 1000.0'
func BuildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	raw, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	filters := make([]filter.Filter, 0, len(raw))
	for _, fc := range raw {
		fcMap, ok := fc.(map[string]any)
		if !ok {
			continue
		}
		switch filterType := conv.ConfigGet(fcMap, "type", ""); filterType {
		case "min_rating":
			filters = append(filters, &filter.MinRatingFilter{})
		case "blacklist":
			filters = append(filters, &filter.BlacklistFilter{
				ItemIDs: conv.SliceAnyToString(fcMap["ids"]),
			})
		case "expr":
			f, err := filter.NewExprFilter(conv.ConfigGet(fcMap, "expr", ""))
			if err != nil {
				return nil, err
			}
			filters = append(filters, f)
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func BuildExprFilterNode(cfg map[string]any) (pipeline.Node, error) {
	f, err := filter.NewExprFilter(conv.ConfigGet(cfg, "expr", ""))
	if err != nil {
		return nil, err
	}
	return &filter.FilterNode{Filters: []filter.Filter{f}}, nil
}
