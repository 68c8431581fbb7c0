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
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/masteryyh/storefront/pkg/config"
	"github.com/masteryyh/storefront/pkg/conn"
	"github.com/masteryyh/storefront/pkg/consts"
	"github.com/masteryyh/storefront/pkg/customerrors"
	"github.com/masteryyh/storefront/pkg/middleware"
	"github.com/masteryyh/storefront/pkg/models"
	"github.com/masteryyh/storefront/pkg/services"
	"github.com/masteryyh/storefront/pkg/utils/response"
	"gorm.io/gorm"
)

type registrar interface {
	RegisterRoutes(router *gin.RouterGroup)
}

// StoreRoutes serves every collection under /api/<schema>.
type StoreRoutes struct {
	resources []registrar
	auth      *AuthRoutes
}

func NewStoreRoutes(svc *services.Services) *StoreRoutes {
	return &StoreRoutes{
		resources: []registrar{
			&ResourceRoutes[models.Product, models.CreateProductDto, models.UpdateProductDto]{
				name:   consts.ResourceProduct,
				list:   svc.Products.List,
				get:    svc.Products.Get,
				create: svc.Products.Create,
				update: svc.Products.Update,
				remove: svc.Products.Delete,
			},
			&ResourceRoutes[models.Patron, models.CreatePatronDto, models.UpdatePatronDto]{
				name:   consts.ResourcePatrons,
				list:   svc.Patrons.List,
				get:    svc.Patrons.Get,
				create: svc.Patrons.Create,
				update: svc.Patrons.Update,
				remove: svc.Patrons.Delete,
			},
			&ResourceRoutes[models.User, models.CreateUserDto, models.UpdateUserDto]{
				name:   consts.ResourceUser,
				list:   svc.Users.List,
				get:    svc.Users.Get,
				create: svc.Users.Create,
				update: svc.Users.Update,
				remove: svc.Users.Delete,
			},
			&ResourceRoutes[models.Order, models.CreateOrderDto, models.UpdateOrderDto]{
				name:   consts.ResourceOrders,
				list:   svc.Orders.List,
				get:    svc.Orders.Get,
				create: svc.Orders.Create,
				update: svc.Orders.Update,
				remove: svc.Orders.Delete,
			},
			&ResourceRoutes[models.Genre, struct{}, struct{}]{
				name: consts.ResourceGenre,
				list: svc.Genres.List,
			},
			&ResourceRoutes[models.Stocktake, models.Stocktake, struct{}]{
				name:   consts.ResourceStocktake,
				list:   svc.Stocktake.List,
				get:    svc.Stocktake.Get,
				create: svc.Stocktake.Create,
				remove: svc.Stocktake.Delete,
			},
			&ResourceRoutes[models.TO, models.CreateTODto, struct{}]{
				name:   consts.ResourceTO,
				list:   svc.TOs.List,
				get:    svc.TOs.Get,
				create: svc.TOs.Create,
				remove: svc.TOs.Delete,
			},
		},
		auth: NewAuthRoutes(svc.Auth),
	}
}

var validatorOnce sync.Once

// useValidateTags makes gin binding read the `validate` tags the models carry.
func useValidateTags() error {
	var err error
	validatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		v.SetTagName("validate")
	})
	return err
}

func (r *StoreRoutes) RegisterRoutes(routerGroup *gin.RouterGroup, schema string) error {
	if err := useValidateTags(); err != nil {
		return err
	}

	r.auth.RegisterRoutes(routerGroup)
	apiGroup := routerGroup.Group("/api/" + schema)
	for _, res := range r.resources {
		res.RegisterRoutes(apiGroup)
	}
	return nil
}

// NewRouter builds the development backend handler.
func NewRouter(cfg *config.ServerConfig, svc *services.Services) (*gin.Engine, error) {
	engine := gin.New()
	engine.Use(
		middleware.RecoveryMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.BasicAuthMiddleware(cfg),
		middleware.SessionMiddleware(svc.Auth, cfg.RequireAuth),
	)
	engine.NoRoute(func(c *gin.Context) {
		response.Failed(c, customerrors.ErrUnknownResource)
	})

	if err := NewStoreRoutes(svc).RegisterRoutes(&engine.RouterGroup, cfg.Schema); err != nil {
		return nil, err
	}
	return engine, nil
}

// Setup opens the backend database, seeds it when configured to, and builds the router.
func Setup(ctx context.Context, cfg *config.ServerConfig) (*gin.Engine, *gorm.DB, error) {
	db, err := conn.OpenDB(ctx, cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Seed {
		if err := conn.Seed(ctx, db); err != nil {
			return nil, nil, err
		}
	}

	engine, err := NewRouter(cfg, services.New(db, cfg.SessionTTL))
	if err != nil {
		return nil, nil, err
	}
	return engine, db, nil
}
