package config

import (
	"context"
	"testing"

	"github.com/rushteam/prodrec/catalog"
	"github.com/rushteam/prodrec/core"
	"github.com/rushteam/prodrec/similarity"
)

func fp(v float64) *float64 { return &v }

func testCatalog() *catalog.Catalog {
	return catalog.New([]*core.Product{
		{URI: catalog.BaseURI + "laptop", Name: "Laptop Pro", Category: "Laptops", Price: fp(500), Rating: fp(4.5), ReviewCount: 1200},
		{URI: catalog.BaseURI + "headset", Name: "Headset", Category: "Audio", Price: fp(80), Rating: fp(3.2), ReviewCount: 40},
		{URI: catalog.BaseURI + "mouse", Name: "Mouse", Category: "Accessories", Price: fp(25), Rating: fp(4.8), ReviewCount: 900},
	})
}

func testModel(t *testing.T) *similarity.Model {
	t.Helper()
	m, err := similarity.New(
		[]string{"laptop", "headset", "mouse"},
		[][]float64{
			{1.0, 0.2, 0.6},
			{0.2, 1.0, 0.1},
			{0.6, 0.1, 1.0},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestHybridPolicy_EndToEnd(t *testing.T) {
	reg := NewPolicyRegistry(PolicyDeps{
		Source:     testCatalog(),
		Similarity: testModel(t),
		DefaultK:   10,
	})
	p, err := reg.Get("hybrid")
	if err != nil {
		t.Fatal(err)
	}

	rctx := &core.RecommendContext{
		UserID: "u1",
		Prefs: &core.UserPreferences{
			PreferredCategories: []string{"laptops"},
			Budget:              fp(600),
			MinRating:           4.0,
			LikedItems:          []string{"mouse"},
		},
	}
	out, err := p.Run(context.Background(), rctx, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("len = %d", len(out))
	}

	// mouse 是 liked 物品本身，自相似度 1.0：
	// semantic 0.578, ml 1.0 → final 0.789，排第一
	if out[0].ID != "mouse" || out[0].FinalScore != 0.789 {
		t.Errorf("out[0] = %s (final %v), want mouse 0.789", out[0].ID, out[0].FinalScore)
	}
	// laptop: semantic ≈ 0.903, ml = 0.6 → final 0.752
	if out[1].ID != "laptop" {
		t.Fatalf("out[1] = %s", out[1].ID)
	}
	if out[1].FinalScore != 0.752 {
		t.Errorf("FinalScore = %v, want 0.752", out[1].FinalScore)
	}
	if out[1].SemanticScore != 0.903 {
		t.Errorf("SemanticScore = %v, want 0.903", out[1].SemanticScore)
	}
	if out[1].MLScore != 0.6 {
		t.Errorf("MLScore = %v, want 0.6", out[1].MLScore)
	}
	if out[1].Explanation == "" {
		t.Error("Explanation 不应为空")
	}

	// 混合策略不过滤低评分，headset 仍在结果里
	var hasHeadset bool
	for _, it := range out {
		if it.ID == "headset" {
			hasHeadset = true
		}
	}
	if !hasHeadset {
		t.Error("hybrid 策略不应过滤低评分物品")
	}

	for i := 1; i < len(out); i++ {
		if out[i-1].FinalScore < out[i].FinalScore {
			t.Errorf("排序未按 FinalScore 降序: %v < %v", out[i-1].FinalScore, out[i].FinalScore)
		}
	}
}

func TestHybridPolicy_NoModelDegrades(t *testing.T) {
	reg := NewPolicyRegistry(PolicyDeps{
		Source:     testCatalog(),
		Similarity: similarity.Empty(),
		DefaultK:   10,
	})
	p, _ := reg.Get("")
	if p.Name != "hybrid" {
		t.Fatalf("默认策略 = %s", p.Name)
	}

	out, err := p.Run(context.Background(), &core.RecommendContext{UserID: "u1"}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, it := range out {
		if it.MLScore != 0 {
			t.Errorf("空模型 MLScore = %v", it.MLScore)
		}
	}
}

func TestSemanticPolicy_EndToEnd(t *testing.T) {
	reg := NewPolicyRegistry(PolicyDeps{
		Source:   testCatalog(),
		DefaultK: 10,
	})
	p, err := reg.Get("semantic")
	if err != nil {
		t.Fatal(err)
	}

	rctx := &core.RecommendContext{
		UserID: "u1",
		Prefs: &core.UserPreferences{
			PreferredCategories: []string{"laptops"},
			Budget:              fp(600),
			MinRating:           4.0,
		},
	}
	out, err := p.Run(context.Background(), rctx, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// headset 评分 3.2 < 4.0 被过滤
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].ID != "laptop" || out[1].ID != "mouse" {
		t.Errorf("顺序 = %s, %s", out[0].ID, out[1].ID)
	}
	// 语义策略不产出混合分
	if out[0].FinalScore != 0 || out[0].MLScore != 0 {
		t.Errorf("semantic 策略不应有混合分: final=%v ml=%v", out[0].FinalScore, out[0].MLScore)
	}
}

func TestPolicyRegistry(t *testing.T) {
	reg := NewPolicyRegistry(PolicyDeps{Source: testCatalog(), DefaultK: 5})

	if _, err := reg.Get("nope"); !core.IsNotFound(err) {
		t.Errorf("未知策略应返回 NOT_FOUND, got %v", err)
	}
	if len(reg.Names()) != 2 {
		t.Errorf("Names() = %v", reg.Names())
	}
}

func TestBuildPipelineFromConfig(t *testing.T) {
	factory := DefaultFactory()

	types := []string{"rank.semantic", "rank.hybrid", "rerank.topn", "rerank.preferred_first", "filter", "filter.expr"}
	supported := SupportedTypes()
	set := make(map[string]bool, len(supported))
	for _, s := range supported {
		set[s] = true
	}
	for _, typ := range types {
		if !set[typ] {
			t.Errorf("%s 未注册", typ)
		}
	}

	node, err := factory.Build("rerank.topn", map[string]any{"n": 5})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if node.Name() != "rerank.topn" {
		t.Errorf("Name() = %s", node.Name())
	}

	if _, err := factory.Build("filter", map[string]any{
		"filters": []any{
			map[string]any{"type": "min_rating"},
			map[string]any{"type": "expr", "expr": "item.rating >= 4.0"},
		},
	}); err != nil {
		t.Fatalf("Build(filter) error = %v", err)
	}
}
