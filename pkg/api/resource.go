package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/masteryyh/storefront/pkg/query"
	"github.com/masteryyh/storefront/pkg/request"
	"github.com/masteryyh/storefront/pkg/utils/pagination"
)

type updateInput[U any] struct {
	id  int64
	dto *U
}

type resourceOption func(*resourceOptions)

type resourceOptions struct {
	extra []query.Key
}

// withExtraInvalidations adds families a delete on this resource also makes stale.
func withExtraInvalidations(keys ...query.Key) resourceOption {
	return func(o *resourceOptions) {
		o.extra = append(o.extra, keys...)
	}
}

// Resource is the typed binding of one backend collection. Reads go through
// the query cache, writes are mutations that invalidate the list tag and,
// where an id is known, the detail tag.
type Resource[T, C, U any] struct {
	c         *Client
	name      string
	listTag   string
	detailTag string

	create *query.Mutation[*C, *T]
	update *query.Mutation[updateInput[U], *T]
	remove *query.Mutation[int64, struct{}]
}

func newResource[T, C, U any](c *Client, name, listTag, detailTag string, opts ...resourceOption) *Resource[T, C, U] {
	o := &resourceOptions{}
	for _, opt := range opts {
		opt(o)
	}

	r := &Resource[T, C, U]{
		c:         c,
		name:      name,
		listTag:   listTag,
		detailTag: detailTag,
	}

	r.create = query.NewMutation(c.cache, func(ctx context.Context, dto *C) (*T, error) {
		return request.Send[*T](ctx, c.http, http.MethodPost, r.path(), dto)
	}, func(*C, *T) []query.Key {
		return []query.Key{query.NewKey(listTag)}
	})

	r.update = query.NewMutation(c.cache, func(ctx context.Context, in updateInput[U]) (*T, error) {
		return request.Send[*T](ctx, c.http, http.MethodPatch, r.path(in.id), in.dto)
	}, func(in updateInput[U], _ *T) []query.Key {
		return []query.Key{
			query.NewKey(detailTag, formatID(in.id)),
			query.NewKey(listTag),
		}
	})

	r.remove = query.NewMutation(c.cache, func(ctx context.Context, id int64) (struct{}, error) {
		_, err := c.http.Do(ctx, r.path(id), request.WithMethod(http.MethodDelete))
		return struct{}{}, err
	}, func(int64, struct{}) []query.Key {
		keys := []query.Key{query.NewKey(listTag), query.NewKey(detailTag)}
		return append(keys, o.extra...)
	})

	return r
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (r *Resource[T, C, U]) path(id ...int64) string {
	p := r.c.resourcePath(r.name)
	if len(id) > 0 {
		p += "/" + formatID(id[0])
	}
	return p
}

func (r *Resource[T, C, U]) Name() string {
	return r.name
}

// ListKey is the cache key of one resolved list query.
func (r *Resource[T, C, U]) ListKey(params pagination.QueryParams) query.Key {
	return query.NewKey(r.listTag, params.Values().Encode())
}

func (r *Resource[T, C, U]) DetailKey(id int64) query.Key {
	return query.NewKey(r.detailTag, formatID(id))
}

// List fetches one page. The returned list is never nil.
func (r *Resource[T, C, U]) List(ctx context.Context, params pagination.QueryParams) (*pagination.ListResponse[T], error) {
	return query.Fetch(ctx, r.c.cache, r.ListKey(params), func(ctx context.Context) (*pagination.ListResponse[T], error) {
		return getList[T](ctx, r.c, r.name, params)
	})
}

func getList[T any](ctx context.Context, c *Client, name string, params pagination.QueryParams) (*pagination.ListResponse[T], error) {
	resp, err := request.Get[*pagination.ListResponse[T]](ctx, c.http, c.resourcePath(name), params.Map())
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = &pagination.ListResponse[T]{}
	}
	if resp.List == nil {
		resp.List = []T{}
	}
	return resp, nil
}

func (r *Resource[T, C, U]) Get(ctx context.Context, id int64) (*T, error) {
	return query.Fetch(ctx, r.c.cache, r.DetailKey(id), func(ctx context.Context) (*T, error) {
		return request.Get[*T](ctx, r.c.http, r.path(id), nil)
	})
}

func (r *Resource[T, C, U]) Create(ctx context.Context, dto *C) (*T, error) {
	return r.create.Run(ctx, dto)
}

func (r *Resource[T, C, U]) Update(ctx context.Context, id int64, dto *U) (*T, error) {
	return r.update.Run(ctx, updateInput[U]{id: id, dto: dto})
}

func (r *Resource[T, C, U]) Delete(ctx context.Context, id int64) error {
	_, err := r.remove.Run(ctx, id)
	return err
}

// Pager starts a pager over this resource's list.
func (r *Resource[T, C, U]) Pager(params pagination.QueryParams) *pagination.Pager[T] {
	return pagination.NewPager[T](r, params)
}

// Subscribe calls fn whenever this resource's list family is invalidated.
func (r *Resource[T, C, U]) Subscribe(fn func(query.Key)) func() {
	return r.c.cache.Subscribe(query.NewKey(r.listTag), fn)
}
