// Package catalog 实现进程级只读商品目录。
//
// 目录在启动时从离线 ETL 导出的 CSV 加载一次，之后只读，
// 可被并发请求无锁共享。所有可选字段的容错解析都发生在这里：
// 打分侧拿到的永远是干净的 core.Product。
package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rushteam/prodrec/core"
)

// BaseURI 是目录本体的命名空间前缀，商品与类目 URI 都挂在它下面。
const BaseURI = "http://example.org/onto#"

// Catalog 是内存商品目录，实现 core.CandidateSource。
type Catalog struct {
	products []*core.Product
	byID     map[string]*core.Product
}

// New 从已构建好的商品列表创建目录（测试与 Store 快照加载用）。
func New(products []*core.Product) *Catalog {
	byID := make(map[string]*core.Product, len(products))
	for _, p := range products {
		byID[p.BareID()] = p
	}
	return &Catalog{products: products, byID: byID}
}

func (c *Catalog) Name() string { return "catalog.memory" }

// Size 返回商品数，健康检查用。
func (c *Catalog) Size() int { return len(c.products) }

// Get 按裸 id 查商品，不存在返回 nil。
func (c *Catalog) Get(id string) *core.Product {
	return c.byID[id]
}

// Products 返回全量商品（加载顺序）。调用方不得修改。
func (c *Catalog) Products() []*core.Product { return c.products }

// FetchCandidates 按加载顺序返回最多 limit 个候选。
// limit <= 0 表示不限。
func (c *Catalog) FetchCandidates(_ context.Context, limit int) ([]*core.Product, error) {
	if limit <= 0 || limit >= len(c.products) {
		return c.products, nil
	}
	return c.products[:limit], nil
}

var _ core.CandidateSource = (*Catalog)(nil)

// LoadCSV 从离线 ETL 导出的 CSV 加载目录。
//
// 期望表头：id,name,category,price,average_rating,rating_number。
// 解析规则（对应 MalformedAttribute 降级）：
//   - id 或 name 为空的行跳过
//   - price/average_rating 解析失败 → nil；rating_number 解析失败 → 0
//   - category 为空时不挂类目，但商品保留
func LoadCSV(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("catalog: read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"id", "name"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("catalog: csv missing column %q", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var products []*core.Product
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: read row: %w", err)
		}

		id := field(row, "id")
		name := field(row, "name")
		if id == "" || name == "" {
			continue
		}

		p := &core.Product{
			URI:         BaseURI + id,
			Name:        name,
			Price:       parseFloat(field(row, "price")),
			Rating:      parseFloat(field(row, "average_rating")),
			ReviewCount: parseInt(field(row, "rating_number")),
		}
		if cat := field(row, "category"); cat != "" {
			p.Category = cat
			p.CategoryURI = BaseURI + Slugify(cat)
		}
		products = append(products, p)
	}

	return New(products), nil
}

var slugPattern = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Slugify 把类目名转成可入 URI 的 slug，与离线 ETL 的规则保持一致。
func Slugify(s string) string {
	return strings.ToLower(strings.Trim(slugPattern.ReplaceAllString(strings.TrimSpace(s), "-"), "-"))
}

// parseFloat 宽松解析数值字段，失败即视为缺失。
func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// parseInt 宽松解析计数字段，失败降级为 0。
func parseInt(s string) int {
	if s == "" {
		return 0
	}
	// ETL 偶尔会导出 "1200.0" 这种计数
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
