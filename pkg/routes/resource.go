/*
Copyright © 2026 masteryyh <yyh991013@163.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package routes

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/gorilla/schema"
	"github.com/masteryyh/storefront/pkg/customerrors"
	"github.com/masteryyh/storefront/pkg/utils/pagination"
	"github.com/masteryyh/storefront/pkg/utils/response"
)

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// ResourceRoutes exposes one collection. Handlers left nil are not routed.
type ResourceRoutes[T, C, U any] struct {
	name   string
	list   func(ctx context.Context, params *pagination.QueryParams) (*pagination.ListResponse[T], error)
	get    func(ctx context.Context, id int64) (*T, error)
	create func(ctx context.Context, dto *C) (*T, error)
	update func(ctx context.Context, id int64, dto *U) (*T, error)
	remove func(ctx context.Context, id int64) error
}

func (r *ResourceRoutes[T, C, U]) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/" + r.name)
	{
		if r.list != nil {
			group.GET("", r.List)
		}
		if r.create != nil {
			group.POST("", r.Create)
		}
		if r.get != nil {
			group.GET("/:id", r.Get)
		}
		if r.update != nil {
			group.PATCH("/:id", r.Update)
			group.PUT("/:id", r.Update)
		}
		if r.remove != nil {
			group.DELETE("/:id", r.Delete)
		}
	}
}

func bindQueryParams(c *gin.Context) (*pagination.QueryParams, error) {
	var params pagination.QueryParams
	if err := queryDecoder.Decode(&params, c.Request.URL.Query()); err != nil {
		return nil, customerrors.InvalidParams(err)
	}
	if err := binding.Validator.ValidateStruct(&params); err != nil {
		return nil, customerrors.InvalidParams(err)
	}
	return &params, nil
}

func bindID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, customerrors.ErrInvalidParams
	}
	return id, nil
}

func (r *ResourceRoutes[T, C, U]) List(c *gin.Context) {
	params, err := bindQueryParams(c)
	if err != nil {
		response.Failed(c, err)
		return
	}

	result, err := r.list(c, params)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, result)
}

func (r *ResourceRoutes[T, C, U]) Get(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		response.Failed(c, err)
		return
	}

	result, err := r.get(c, id)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, result)
}

func (r *ResourceRoutes[T, C, U]) Create(c *gin.Context) {
	var dto C
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Failed(c, customerrors.InvalidParams(err))
		return
	}

	result, err := r.create(c, &dto)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.Created(c, result)
}

func (r *ResourceRoutes[T, C, U]) Update(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		response.Failed(c, err)
		return
	}

	var dto U
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Failed(c, customerrors.InvalidParams(err))
		return
	}

	result, err := r.update(c, id, &dto)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, result)
}

func (r *ResourceRoutes[T, C, U]) Delete(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		response.Failed(c, err)
		return
	}

	if err := r.remove(c, id); err != nil {
		response.Failed(c, err)
		return
	}
	response.NoContent(c)
}
