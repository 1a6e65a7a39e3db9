package prefstore

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/rushteam/prodrec/core"
	"github.com/rushteam/prodrec/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ms := store.NewMemoryStore()
	t.Cleanup(func() { ms.Close() })
	return New(ms, "prefs")
}

func TestLoad_UnknownUserGetsDefaults(t *testing.T) {
	s := newTestStore(t)

	prefs, err := s.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := core.DefaultPreferences()
	if !reflect.DeepEqual(prefs, want) {
		t.Errorf("Load() = %+v, want defaults %+v", prefs, want)
	}
}

func TestSave_PartialMerge(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	budget := 600.0
	cats := []string{"Laptops"}
	if _, err := s.Save(ctx, "u1", &core.PreferencePatch{
		PreferredCategories: &cats,
		Budget:              &budget,
	}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// 第二次只改 min_rating，其余字段必须保留
	minRating := 4.0
	got, err := s.Save(ctx, "u1", &core.PreferencePatch{MinRating: &minRating})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got.Budget == nil || *got.Budget != 600.0 {
		t.Errorf("budget 未保留: %v", got.Budget)
	}
	if !reflect.DeepEqual(got.PreferredCategories, cats) {
		t.Errorf("preferred_categories 未保留: %v", got.PreferredCategories)
	}
	if got.MinRating != 4.0 {
		t.Errorf("min_rating = %v, want 4.0", got.MinRating)
	}

	// 重新 Load 确认已持久化
	loaded, err := s.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, got) {
		t.Errorf("Load() = %+v, want %+v", loaded, got)
	}
}

func TestSave_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	liked := []string{"p1", "p2"}
	patch := &core.PreferencePatch{LikedItems: &liked}

	first, err := s.Save(ctx, "u2", patch)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	second, err := s.Save(ctx, "u2", patch)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("重复保存不幂等: %+v vs %+v", first, second)
	}
}

func TestSave_ConcurrentSameUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// 两个并发写不同字段：串行化后两个字段都必须存在
	var wg sync.WaitGroup
	budget := 100.0
	minRating := 3.5
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.Save(ctx, "u3", &core.PreferencePatch{Budget: &budget})
	}()
	go func() {
		defer wg.Done()
		s.Save(ctx, "u3", &core.PreferencePatch{MinRating: &minRating})
	}()
	wg.Wait()

	got, err := s.Load(ctx, "u3")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Budget == nil || *got.Budget != 100.0 {
		t.Errorf("budget 丢失: %v", got.Budget)
	}
	if got.MinRating != 3.5 {
		t.Errorf("min_rating 丢失: %v", got.MinRating)
	}
}
