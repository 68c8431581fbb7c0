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

package api

import (
	"context"
	"net/http"

	"github.com/masteryyh/storefront/pkg/consts"
	"github.com/masteryyh/storefront/pkg/models"
	"github.com/masteryyh/storefront/pkg/query"
	"github.com/masteryyh/storefront/pkg/request"
)

// NoUpdate marks a resource the backend does not patch.
type NoUpdate struct{}

// Client binds every storefront resource to one transport and one cache.
type Client struct {
	http   *request.Client
	cache  *query.Cache
	schema string

	Products  *Resource[models.Product, models.CreateProductDto, models.UpdateProductDto]
	Patrons   *Resource[models.Patron, models.CreatePatronDto, models.UpdatePatronDto]
	Users     *Users
	Orders    *Resource[models.Order, models.CreateOrderDto, models.UpdateOrderDto]
	Stocktake *Resource[models.Stocktake, models.Stocktake, NoUpdate]
	TO        *Resource[models.TO, models.CreateTODto, NoUpdate]
	Genres    *Genres
}

func NewClient(transport *request.Client, cache *query.Cache, schema string) *Client {
	if schema == "" {
		schema = consts.DefaultSchema
	}
	c := &Client{
		http:   transport,
		cache:  cache,
		schema: schema,
	}

	c.Products = newResource[models.Product, models.CreateProductDto, models.UpdateProductDto](c, consts.ResourceProduct, consts.TagProducts, consts.TagProduct)
	c.Patrons = newResource[models.Patron, models.CreatePatronDto, models.UpdatePatronDto](c, consts.ResourcePatrons, consts.TagPatrons, consts.TagPatron)
	c.Users = &Users{
		Resource: newResource[models.User, models.CreateUserDto, models.UpdateUserDto](c, consts.ResourceUser, consts.TagUsers, consts.TagUser),
	}
	c.Orders = newResource[models.Order, models.CreateOrderDto, models.UpdateOrderDto](c, consts.ResourceOrders, consts.TagOrders, consts.TagOrder)
	c.Stocktake = newResource[models.Stocktake, models.Stocktake, NoUpdate](c, consts.ResourceStocktake, consts.TagStocktake, consts.TagStocktake,
		withExtraInvalidations(query.NewKey(consts.TagOrders)),
	)
	c.TO = newResource[models.TO, models.CreateTODto, NoUpdate](c, consts.ResourceTO, consts.TagTO, consts.TagTO)
	c.Genres = &Genres{c: c}
	return c
}

func (c *Client) Cache() *query.Cache {
	return c.cache
}

func (c *Client) Transport() *request.Client {
	return c.http
}

func (c *Client) Schema() string {
	return c.schema
}

func (c *Client) resourcePath(name string) string {
	return "/api/" + c.schema + "/" + name
}

// Login posts the credentials. The session itself travels in the cookie jar.
func (c *Client) Login(ctx context.Context, dto *models.LoginDto) (*models.LoginResponse, error) {
	return request.Send[*models.LoginResponse](ctx, c.http, http.MethodPost, "/login", dto)
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.http.Do(ctx, "/logout", request.WithMethod(http.MethodPost), request.WithBody(struct{}{}))
	return err
}
