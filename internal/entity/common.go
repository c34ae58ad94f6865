package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// StringArray 以 JSON 文本存储的字符串列表，例如设施的便利设施
type StringArray []string

// Clean trims every entry and drops blanks and repeats, keeping order.
func (a StringArray) Clean() StringArray {
	out := make(StringArray, 0, len(a))
	seen := make(map[string]struct{}, len(a))
	for _, v := range a {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Value 实现 driver.Valuer 接口。
func (a StringArray) Value() (driver.Value, error) {
	raw, err := json.Marshal([]string(a.Clean()))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan 实现 sql.Scanner 接口。
func (a *StringArray) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*a = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringArray: %T", value)
	}
	if len(raw) == 0 {
		*a = StringArray{}
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(a))
}

// Response 是标准 API 响应结构，Msg 已按请求语言翻译
type Response struct {
	Code int       `json:"code"`
	Msg  string    `json:"msg"`
	Data any       `json:"data"`
	Time time.Time `json:"time"`
}

// ResponseItems 是带分页的列表响应
type ResponseItems struct {
	Code int       `json:"code"`
	Msg  string    `json:"msg"`
	Data any       `json:"data"`
	Meta *Meta     `json:"meta"`
	Time time.Time `json:"time"`
}

// Meta 包含分页元数据
type Meta struct {
	Page     int64 `json:"page"`
	PageSize int64 `json:"page_size"`
	Total    int64 `json:"total"`
	Pages    int64 `json:"pages"`
}

// BaseParams 列表查询的分页和排序参数
type BaseParams struct {
	PageSize int64  `json:"page_size" form:"page_size"`
	Page     int64  `json:"page" form:"page"`
	SortBy   string `json:"sort_by" form:"sort_by"`
	SortDesc bool   `json:"sort_desc" form:"sort_desc"`
}

// Window clamps the page parameters and returns page, size and row offset.
func (p BaseParams) Window() (page, size, offset int) {
	page, size = int(p.Page), int(p.PageSize)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size, (page - 1) * size
}

// NewMeta describes one page of a listing with total matching rows.
func NewMeta(page, size int, total int64) *Meta {
	pages := int64(0)
	if size > 0 {
		pages = (total + int64(size) - 1) / int64(size)
	}
	return &Meta{Page: int64(page), PageSize: int64(size), Total: total, Pages: pages}
}
