// Package similarity 封装离线训练产出的物品两两相似度模型。
//
// 工件是训练任务导出的 JSON：{"ids": [...], "matrix": [[...]]}，
// matrix 在训练期已做全矩阵 min-max 归一到 [0,1]，本包不再归一。
// 进程启动时加载一次，之后只读，可被并发请求无锁共享。
package similarity

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rushteam/prodrec/core"
)

// ErrArtifactMissing 表示工件文件不存在。缺失是合法的降级态
// （模型对所有查询返回 0），不是启动失败。
var ErrArtifactMissing = core.NewDomainError(core.ModuleSimilarity, core.ErrorCodeNotFound, "similarity: artifact not found")

// Model 持有对齐的 id 序列与方阵，加载时建 id→下标索引做 O(1) 解析。
// 零值/Empty 模型是永久降级态：任何查询都得 0。
type Model struct {
	ids    []string
	matrix [][]float64
	index  map[string]int
}

// Empty 返回降级的空模型。
func Empty() *Model {
	return &Model{index: map[string]int{}}
}

// New 从已对齐的 ids 与方阵构建模型，校验 len(ids) == len(matrix) == len(matrix[i])。
func New(ids []string, matrix [][]float64) (*Model, error) {
	if len(ids) != len(matrix) {
		return nil, fmt.Errorf("similarity: ids/matrix misaligned: %d ids, %d rows", len(ids), len(matrix))
	}
	for i, row := range matrix {
		if len(row) != len(ids) {
			return nil, fmt.Errorf("similarity: matrix not square: row %d has %d cols, want %d", i, len(row), len(ids))
		}
	}
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	return &Model{ids: ids, matrix: matrix, index: index}, nil
}

// Load 从 JSON 工件文件加载模型。
// 文件不存在返回 ErrArtifactMissing；格式/对齐问题返回普通错误。
// 两种情况调用方都应降级为 Empty() 而不是中止启动。
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrArtifactMissing
		}
		return nil, fmt.Errorf("similarity: read artifact: %w", err)
	}

	var raw struct {
		IDs    []string    `json:"ids"`
		Matrix [][]float64 `json:"matrix"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("similarity: parse artifact: %w", err)
	}
	return New(raw.IDs, raw.Matrix)
}

func (m *Model) Name() string { return "similarity.content" }

// Len 返回已知物品数，空模型为 0。
func (m *Model) Len() int { return len(m.ids) }

// Has 判断 id 是否在模型索引中。
func (m *Model) Has(id string) bool {
	_, ok := m.index[id]
	return ok
}

// Score 返回 itemID 与 likedIDs 的平均相似度，∈ [0,1]。
//
// 降级规则（全部是值级，不抛错）：
//   - 空模型 / likedIDs 为空 / itemID 未知 → 0
//   - likedIDs 中的未知 id 被跳过；若一个都解析不到 → 0
//   - 结果是可解析 liked 的算术平均，对顺序不敏感
func (m *Model) Score(itemID string, likedIDs []string) float64 {
	if len(m.ids) == 0 || len(likedIDs) == 0 {
		return 0
	}
	idx, ok := m.index[itemID]
	if !ok {
		return 0
	}

	var sum float64
	var n int
	for _, lid := range likedIDs {
		lidx, ok := m.index[lid]
		if !ok {
			continue
		}
		sum += m.matrix[lidx][idx]
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

var _ core.SimilarityScorer = (*Model)(nil)
