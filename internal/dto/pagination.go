package dto

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const DefaultPageSize = 20

// PageQuery 分页参数
type PageQuery struct {
	Page     int
	PageSize int
}

func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// ParsePage 解析 page / pageSize，非法值回退为默认值
func ParsePage(c *gin.Context, maxPageSize int) PageQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(DefaultPageSize)))
	return NormalizePage(page, pageSize, maxPageSize)
}

func NormalizePage(page, pageSize, maxPageSize int) PageQuery {
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = DefaultPageSize
	}
	return PageQuery{Page: page, PageSize: pageSize}
}

// PageResult 分页结果
type PageResult[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

func NewPageResult[T any](items []T, total int64, q PageQuery) *PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PageResult[T]{Items: items, Total: total, Page: q.Page, PageSize: q.PageSize}
}

// SplitCSV 解析逗号分隔的参数，去除空白与重复项，保持顺序
func SplitCSV(s string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}

// LikePattern 生成不区分大小写的子串匹配模式，配合 LOWER(col) LIKE ? ESCAPE '\' 使用
func LikePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(q)) + "%"
}
