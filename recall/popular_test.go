package recall

import (
	"context"
	"testing"

	"github.com/rushteam/prodrec/catalog"
	"github.com/rushteam/prodrec/core"
	"github.com/rushteam/prodrec/store"
)

func TestPopularRecall(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()

	cat := catalog.New([]*core.Product{
		{URI: catalog.BaseURI + "a", Name: "A"},
		{URI: catalog.BaseURI + "b", Name: "B"},
		{URI: catalog.BaseURI + "c", Name: "C"},
	})

	for member, score := range map[string]float64{"a": 3, "b": 9, "ghost": 5} {
		if err := s.ZAdd(ctx, "trending", score, member); err != nil {
			t.Fatal(err)
		}
	}

	r := &PopularRecall{
		Store:  s,
		Key:    "trending",
		Lookup: cat.Get,
	}
	items, err := r.Recall(ctx, &core.RecommendContext{})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}

	// ghost 不在目录里，被跳过；剩余按分数降序
	if len(items) != 2 {
		t.Fatalf("len = %d, items = %v", len(items), items)
	}
	if items[0].ID != "b" || items[1].ID != "a" {
		t.Errorf("顺序 = %s, %s", items[0].ID, items[1].ID)
	}
	if lbl, ok := items[0].Labels["recall_source"]; !ok || lbl.Value != "recall.popular" {
		t.Errorf("Labels = %v", items[0].Labels)
	}
}

func TestPopularRecall_EmptyKey(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()

	r := &PopularRecall{
		Store:  s,
		Key:    "absent",
		Lookup: func(string) *core.Product { return nil },
	}
	items, err := r.Recall(context.Background(), &core.RecommendContext{})
	if err != nil || len(items) != 0 {
		t.Errorf("items = %v, err = %v", items, err)
	}
}

func TestFanout_CatalogWithPopular(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()

	cat := catalog.New([]*core.Product{
		{URI: catalog.BaseURI + "a", Name: "A"},
		{URI: catalog.BaseURI + "b", Name: "B"},
	})
	if err := s.ZAdd(ctx, "trending", 1, "b"); err != nil {
		t.Fatal(err)
	}

	fanout := &Fanout{
		Sources: []Source{
			&CatalogRecall{Source: cat},
			&PopularRecall{Store: s, Key: "trending", Lookup: cat.Get},
		},
		Dedup: true,
	}
	items, err := fanout.Process(ctx, &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	// b 同时来自两个源，去重保留目录序，标签合并
	if len(items) != 2 {
		t.Fatalf("len = %d", len(items))
	}
	if items[0].ID != "a" || items[1].ID != "b" {
		t.Errorf("顺序 = %s, %s", items[0].ID, items[1].ID)
	}
	lbl := items[1].Labels["recall_source"]
	if lbl.Value == "" {
		t.Errorf("Labels = %v", items[1].Labels)
	}
}
