// Package pagination implements cursor paging over snowflake-keyed rows.
// The page token is the last seen ID; rows are returned newest first.
package pagination

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Pagination struct {
	PageSize  int
	PageToken string
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token,omitempty"`
	HasMore       bool   `json:"has_more"`
}

func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		return MaxPageSize
	}
	return p.PageSize
}

// Apply adds the cursor predicate and ordering. Callers fetch limit+1 rows
// and use Trim to decide whether another page exists.
func (p Pagination) Apply(query *gorm.DB) *gorm.DB {
	token := strings.TrimSpace(p.PageToken)
	if token != "" {
		if cursor, err := snowflake.ParseString(token); err == nil {
			query = query.Where("id < ?", cursor)
		}
	}
	return query.Order("id DESC").Limit(p.Limit() + 1)
}

// Trim cuts the probe row off a limit+1 result set and builds the PageInfo.
func Trim[T any](items []T, limit int, lastID func(T) snowflake.ID) ([]T, *PageInfo) {
	info := &PageInfo{}
	if len(items) > limit {
		items = items[:limit]
		info.HasMore = true
	}
	if info.HasMore && len(items) > 0 {
		info.NextPageToken = lastID(items[len(items)-1]).String()
	}
	return items, info
}
