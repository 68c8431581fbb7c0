package pagination

import (
	"net/url"

	"github.com/gorilla/schema"
)

// PageInfo is the pagination metadata reported by the backend. The boundary
// flags are trusted as-is on the client side.
type PageInfo struct {
	TotalRows   int  `json:"totalRows"`
	Page        int  `json:"page"`
	PageSize    int  `json:"pageSize"`
	IsFirstPage bool `json:"isFirstPage"`
	IsLastPage  bool `json:"isLastPage"`
}

// ListResponse is the envelope every list endpoint returns.
type ListResponse[T any] struct {
	List     []T      `json:"list"`
	PageInfo PageInfo `json:"pageInfo"`
}

// QueryParams are the list query parameters. Where and Sort are expressions
// owned by the backend and are passed through untouched. Offset is always
// sent, a zero Limit means unset.
type QueryParams struct {
	Limit  int    `schema:"limit,omitempty" json:"limit" validate:"min=0"`
	Offset int    `schema:"offset" json:"offset" validate:"min=0"`
	Fields string `schema:"fields,omitempty" json:"fields,omitempty"`
	Where  string `schema:"where,omitempty" json:"where,omitempty"`
	Sort   string `schema:"sort,omitempty" json:"sort,omitempty"`
}

var encoder = schema.NewEncoder()

// Values encodes the parameters as a query string map. Empty strings and a
// zero limit are left out.
func (p QueryParams) Values() url.Values {
	values := url.Values{}
	// Encode only fails for field types without an encoder, and every field
	// here is a string or an int.
	_ = encoder.Encode(p, values)
	return values
}

// Map is the parameter form consumed by the transport.
func (p QueryParams) Map() map[string]any {
	values := p.Values()
	m := make(map[string]any, len(values))
	for k := range values {
		m[k] = values.Get(k)
	}
	return m
}

// Offset returns the row offset of a 1-based page.
func Offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

// TotalPages is ceil(totalRows/pageSize), at least 1.
func TotalPages(totalRows, pageSize int) int {
	if pageSize <= 0 || totalRows <= 0 {
		return 1
	}
	return (totalRows + pageSize - 1) / pageSize
}

// NewPageInfo derives page metadata from a limit/offset window.
func NewPageInfo(totalRows, limit, offset int) PageInfo {
	if limit <= 0 {
		limit = totalRows
		if limit == 0 {
			limit = 1
		}
	}
	page := offset/limit + 1
	return PageInfo{
		TotalRows:   totalRows,
		Page:        page,
		PageSize:    limit,
		IsFirstPage: page == 1,
		IsLastPage:  page >= TotalPages(totalRows, limit),
	}
}
