package pagination

import (
	"context"
	"sync"

	"github.com/masteryyh/storefront/pkg/consts"
)

// Lister fetches one page of a resource.
type Lister[T any] interface {
	List(ctx context.Context, params QueryParams) (*ListResponse[T], error)
}

// ListerFunc adapts a function to Lister.
type ListerFunc[T any] func(ctx context.Context, params QueryParams) (*ListResponse[T], error)

func (f ListerFunc[T]) List(ctx context.Context, params QueryParams) (*ListResponse[T], error) {
	return f(ctx, params)
}

// Pager keeps page-index state over a Lister. The page moves only when the
// current page has loaded and its page info allows it; the server-reported
// boundary flags are the only upper bound.
type Pager[T any] struct {
	mu          sync.Mutex
	lister      Lister[T]
	params      QueryParams
	pageSize    int
	currentPage int
	last        *ListResponse[T]
	lastParams  QueryParams
	err         error
}

// NewPager starts at page 1. The page size is params.Limit, or the default
// page size when the caller left it unset.
func NewPager[T any](lister Lister[T], params QueryParams) *Pager[T] {
	pageSize := params.Limit
	if pageSize <= 0 {
		pageSize = consts.DefaultPageSize
	}
	return &Pager[T]{
		lister:      lister,
		params:      params,
		pageSize:    pageSize,
		currentPage: 1,
	}
}

// Params returns the caller params with limit and offset resolved for the current page.
func (p *Pager[T]) Params() QueryParams {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paramsLocked()
}

func (p *Pager[T]) paramsLocked() QueryParams {
	params := p.params
	params.Limit = p.pageSize
	params.Offset = Offset(p.currentPage, p.pageSize)
	return params
}

// Load fetches the current page. Errors are kept in Err and leave the current
// page where it is. A response for a page that is no longer current is dropped.
func (p *Pager[T]) Load(ctx context.Context) error {
	p.mu.Lock()
	params := p.paramsLocked()
	p.mu.Unlock()

	resp, err := p.lister.List(ctx, params)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paramsLocked() != params {
		return err
	}
	p.err = err
	if err != nil {
		return err
	}
	p.last = resp
	p.lastParams = params
	return nil
}

// loadedLocked is the last response if it was fetched for the current params.
func (p *Pager[T]) loadedLocked() *ListResponse[T] {
	if p.last == nil || p.lastParams != p.paramsLocked() {
		return nil
	}
	return p.last
}

// NextPage moves forward one page unless the current page has not loaded yet
// or reports the last page. It reports whether the page changed.
func (p *Pager[T]) NextPage() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	last := p.loadedLocked()
	if last == nil || last.PageInfo.IsLastPage {
		return false
	}
	p.currentPage++
	return true
}

// PrevPage is the mirror of NextPage, guarded by IsFirstPage.
func (p *Pager[T]) PrevPage() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	last := p.loadedLocked()
	if last == nil || last.PageInfo.IsFirstPage || p.currentPage <= 1 {
		return false
	}
	p.currentPage--
	return true
}

// SetParams replaces the caller params. The current page is kept.
func (p *Pager[T]) SetParams(params QueryParams) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.params = params
	if params.Limit > 0 {
		p.pageSize = params.Limit
	}
}

func (p *Pager[T]) CurrentPage() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentPage
}

func (p *Pager[T]) PageSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pageSize
}

// Data is the list of the current page, empty until that page has loaded.
// It is never nil.
func (p *Pager[T]) Data() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	last := p.loadedLocked()
	if last == nil || last.List == nil {
		return []T{}
	}
	return last.List
}

// PageInfo is nil until the current page has loaded successfully.
func (p *Pager[T]) PageInfo() *PageInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	last := p.loadedLocked()
	if last == nil {
		return nil
	}
	info := last.PageInfo
	return &info
}

func (p *Pager[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
