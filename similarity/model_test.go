package similarity

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func testModel(t *testing.T) *Model {
	t.Helper()
	m, err := New(
		[]string{"a", "b", "c"},
		[][]float64{
			{1.0, 0.8, 0.2},
			{0.8, 1.0, 0.4},
			{0.2, 0.4, 1.0},
		},
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestModel_Score(t *testing.T) {
	m := testModel(t)

	tests := []struct {
		name   string
		itemID string
		liked  []string
		want   float64
	}{
		{"empty liked", "a", nil, 0},
		{"unknown item", "zzz", []string{"a"}, 0},
		{"single liked", "c", []string{"a"}, 0.2},
		{"mean over liked", "c", []string{"a", "b"}, 0.3},
		{"unknown liked skipped", "c", []string{"a", "nope", "b"}, 0.3},
		{"all liked unknown", "c", []string{"x", "y"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Score(tt.itemID, tt.liked)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score(%q, %v) = %v, want %v", tt.itemID, tt.liked, got, tt.want)
			}
		})
	}
}

func TestModel_ScoreOrderInvariant(t *testing.T) {
	m := testModel(t)
	a := m.Score("c", []string{"a", "b"})
	b := m.Score("c", []string{"b", "a"})
	if a != b {
		t.Errorf("Score 对 liked 顺序敏感: %v != %v", a, b)
	}
}

func TestModel_ScoreRange(t *testing.T) {
	m := testModel(t)
	for _, id := range []string{"a", "b", "c", "unknown"} {
		got := m.Score(id, []string{"a", "b", "c"})
		if got < 0 || got > 1 {
			t.Errorf("Score(%q) = %v, 超出 [0,1]", id, got)
		}
	}
}

func TestEmpty_AlwaysZero(t *testing.T) {
	m := Empty()
	if got := m.Score("a", []string{"a", "b"}); got != 0 {
		t.Errorf("空模型 Score = %v, want 0", got)
	}
	if m.Len() != 0 {
		t.Errorf("空模型 Len = %d, want 0", m.Len())
	}
}

func TestNew_Misaligned(t *testing.T) {
	if _, err := New([]string{"a", "b"}, [][]float64{{1}}); err == nil {
		t.Error("行数不对齐时应报错")
	}
	if _, err := New([]string{"a", "b"}, [][]float64{{1, 0}, {0}}); err == nil {
		t.Error("非方阵时应报错")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing artifact", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.json"))
		if err != ErrArtifactMissing {
			t.Errorf("Load() error = %v, want ErrArtifactMissing", err)
		}
	})

	t.Run("valid artifact", func(t *testing.T) {
		path := filepath.Join(dir, "model.json")
		raw, _ := json.Marshal(map[string]any{
			"ids":    []string{"x", "y"},
			"matrix": [][]float64{{1, 0.5}, {0.5, 1}},
		})
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			t.Fatal(err)
		}
		m, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got := m.Score("y", []string{"x"}); got != 0.5 {
			t.Errorf("Score = %v, want 0.5", got)
		}
	})

	t.Run("malformed artifact", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Error("坏文件应返回错误")
		}
	})
}
