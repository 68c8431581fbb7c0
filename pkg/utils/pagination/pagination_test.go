package pagination

import (
	"context"
	"errors"
	"testing"
)

type fakeLister struct {
	total int
	calls []QueryParams
	err   error
}

func (f *fakeLister) List(_ context.Context, params QueryParams) (*ListResponse[int], error) {
	f.calls = append(f.calls, params)
	if f.err != nil {
		return nil, f.err
	}
	var list []int
	for i := params.Offset; i < params.Offset+params.Limit && i < f.total; i++ {
		list = append(list, i)
	}
	return &ListResponse[int]{
		List:     list,
		PageInfo: NewPageInfo(f.total, params.Limit, params.Offset),
	}, nil
}

func TestQueryParamsValues(t *testing.T) {
	values := QueryParams{Limit: 25, Offset: 50, Sort: "Name"}.Values()
	if values.Get("limit") != "25" || values.Get("offset") != "50" {
		t.Fatalf("unexpected limit/offset: %v", values)
	}
	if values.Get("sort") != "Name" {
		t.Fatalf("expected sort, got %v", values)
	}
	if _, ok := values["where"]; ok {
		t.Fatalf("empty where should be omitted: %v", values)
	}
}

func TestQueryParamsFirstPageSendsOffset(t *testing.T) {
	values := QueryParams{Limit: 25}.Values()
	if got, ok := values["offset"]; !ok || got[0] != "0" {
		t.Fatalf("expected offset=0 on the first page, got %v", values)
	}
	empty := QueryParams{}.Values()
	if _, ok := empty["limit"]; ok {
		t.Fatalf("unset limit should be omitted: %v", empty)
	}
}

func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name                 string
		total, limit, offset int
		wantPage             int
		wantFirst, wantLast  bool
	}{
		{name: "first of many", total: 60, limit: 25, offset: 0, wantPage: 1, wantFirst: true},
		{name: "middle", total: 60, limit: 25, offset: 25, wantPage: 2},
		{name: "last", total: 60, limit: 25, offset: 50, wantPage: 3, wantLast: true},
		{name: "empty", total: 0, limit: 25, offset: 0, wantPage: 1, wantFirst: true, wantLast: true},
		{name: "exact fit", total: 50, limit: 25, offset: 25, wantPage: 2, wantLast: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPageInfo(tt.total, tt.limit, tt.offset)
			if info.Page != tt.wantPage {
				t.Fatalf("expected page %d, got %d", tt.wantPage, info.Page)
			}
			if info.IsFirstPage != tt.wantFirst || info.IsLastPage != tt.wantLast {
				t.Fatalf("unexpected flags: %+v", info)
			}
		})
	}
}

func TestPagerOffset(t *testing.T) {
	lister := &fakeLister{total: 100}
	pager := NewPager[int](lister, QueryParams{})
	ctx := context.Background()

	if err := pager.Load(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pager.NextPage() {
		t.Fatal("expected to move to page 2")
	}
	if err := pager.Load(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pager.NextPage() {
		t.Fatal("expected to move to page 3")
	}

	params := pager.Params()
	if params.Limit != 25 || params.Offset != 50 {
		t.Fatalf("expected limit 25 offset 50, got %+v", params)
	}
}

func TestPagerBoundaries(t *testing.T) {
	lister := &fakeLister{total: 30}
	pager := NewPager[int](lister, QueryParams{Limit: 20})
	ctx := context.Background()

	if pager.NextPage() {
		t.Fatal("next page must be a no-op before any page info")
	}
	if err := pager.Load(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pager.PrevPage() {
		t.Fatal("prev page must be a no-op on the first page")
	}
	if !pager.NextPage() {
		t.Fatal("expected to move to page 2")
	}
	if err := pager.Load(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pager.NextPage() {
		t.Fatal("next page must be a no-op on the last page")
	}
	if pager.CurrentPage() != 2 {
		t.Fatalf("expected page 2, got %d", pager.CurrentPage())
	}
	if got := len(pager.Data()); got != 10 {
		t.Fatalf("expected 10 rows on the last page, got %d", got)
	}
	if !pager.PrevPage() || pager.CurrentPage() != 1 {
		t.Fatalf("expected to go back to page 1, got %d", pager.CurrentPage())
	}
}

func TestPagerDataNeverNil(t *testing.T) {
	pager := NewPager[int](&fakeLister{}, QueryParams{})
	if pager.Data() == nil {
		t.Fatal("data must not be nil before load")
	}
	if err := pager.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data := pager.Data(); data == nil || len(data) != 0 {
		t.Fatalf("expected empty non-nil data, got %#v", data)
	}
}

func TestPagerErrorKeepsPage(t *testing.T) {
	boom := errors.New("boom")
	lister := &fakeLister{total: 100}
	pager := NewPager[int](lister, QueryParams{})
	ctx := context.Background()

	if err := pager.Load(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pager.NextPage()
	lister.err = boom
	if err := pager.Load(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if !errors.Is(pager.Err(), boom) {
		t.Fatalf("expected stored error, got %v", pager.Err())
	}
	if pager.CurrentPage() != 2 {
		t.Fatalf("expected page to stay at 2, got %d", pager.CurrentPage())
	}
	if data := pager.Data(); len(data) != 0 {
		t.Fatalf("page 1 rows must not show on page 2, got %v", data)
	}
	if info := pager.PageInfo(); info != nil {
		t.Fatalf("expected no page info for a page that never loaded, got %+v", info)
	}
	if pager.NextPage() {
		t.Fatal("next page must be a no-op while the current page has not loaded")
	}
}

func TestPagerNextPageWaitsForLoad(t *testing.T) {
	lister := &fakeLister{total: 30}
	pager := NewPager[int](lister, QueryParams{Limit: 20})
	ctx := context.Background()

	if err := pager.Load(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pager.NextPage() {
		t.Fatal("expected to move to page 2")
	}
	if pager.NextPage() {
		t.Fatal("second next page before load must be a no-op")
	}
	if pager.PrevPage() {
		t.Fatal("prev page before load must be a no-op")
	}
	if pager.CurrentPage() != 2 || pager.Params().Offset != 20 {
		t.Fatalf("expected page 2 offset 20, got %d %+v", pager.CurrentPage(), pager.Params())
	}
	if err := pager.Load(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pager.NextPage() {
		t.Fatal("page 2 is the last page")
	}
	if info := pager.PageInfo(); info == nil || info.Page != 2 {
		t.Fatalf("expected page 2 info, got %+v", info)
	}
}

func TestPagerRefreshErrorKeepsData(t *testing.T) {
	boom := errors.New("boom")
	lister := &fakeLister{total: 30}
	pager := NewPager[int](lister, QueryParams{Limit: 20})
	ctx := context.Background()

	if err := pager.Load(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lister.err = boom
	if err := pager.Load(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if got := len(pager.Data()); got != 20 {
		t.Fatalf("expected the loaded page to stay, got %d rows", got)
	}
}

func TestPagerDropsSupersededPage(t *testing.T) {
	var pager *Pager[int]
	inner := &fakeLister{total: 100}
	moved := false
	lister := ListerFunc[int](func(ctx context.Context, params QueryParams) (*ListResponse[int], error) {
		resp, err := inner.List(ctx, params)
		if !moved && params.Offset == 25 {
			moved = true
			pager.SetParams(QueryParams{Sort: "Name"})
		}
		return resp, err
	})
	pager = NewPager[int](lister, QueryParams{})
	ctx := context.Background()

	if err := pager.Load(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pager.NextPage()
	if err := pager.Load(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info := pager.PageInfo(); info != nil {
		t.Fatalf("expected superseded response to be dropped, got %+v", info)
	}
	if pager.CurrentPage() != 2 {
		t.Fatalf("expected page 2 to be kept, got %d", pager.CurrentPage())
	}
	if err := pager.Load(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info := pager.PageInfo(); info == nil || info.Page != 2 {
		t.Fatalf("expected page 2 after reload, got %+v", info)
	}
}
