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

package services

import (
	"context"
	"log/slog"

	"github.com/masteryyh/storefront/pkg/customerrors"
	"github.com/masteryyh/storefront/pkg/models"
	"github.com/masteryyh/storefront/pkg/utils/pagination"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductService struct {
	table *Table[models.Product]
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{table: NewTable[models.Product](db)}
}

func (s *ProductService) List(ctx context.Context, params *pagination.QueryParams) (*pagination.ListResponse[models.Product], error) {
	return s.table.List(ctx, params)
}

func (s *ProductService) Get(ctx context.Context, id int64) (*models.Product, error) {
	return s.table.Get(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, dto *models.CreateProductDto) (*models.Product, error) {
	product := dto.ToModel()
	if err := s.table.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, dto *models.UpdateProductDto) (*models.Product, error) {
	return s.table.Update(ctx, id, dto.Updates())
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.table.Delete(ctx, id)
}

type GenreService struct {
	table *Table[models.Genre]
}

func NewGenreService(db *gorm.DB) *GenreService {
	return &GenreService{table: NewTable[models.Genre](db)}
}

func (s *GenreService) List(ctx context.Context, params *pagination.QueryParams) (*pagination.ListResponse[models.Genre], error) {
	return s.table.List(ctx, params)
}

// StocktakeService serves stock items with a short product summary attached.
type StocktakeService struct {
	table    *Table[models.Stocktake]
	products *Table[models.Product]
}

func NewStocktakeService(db *gorm.DB) *StocktakeService {
	return &StocktakeService{
		table:    NewTable[models.Stocktake](db),
		products: NewTable[models.Product](db),
	}
}

func (s *StocktakeService) List(ctx context.Context, params *pagination.QueryParams) (*pagination.ListResponse[models.Stocktake], error) {
	resp, err := s.table.List(ctx, params)
	if err != nil {
		return nil, err
	}
	if err := s.attachProducts(ctx, resp.List); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *StocktakeService) Get(ctx context.Context, id int64) (*models.Stocktake, error) {
	item, err := s.table.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	items := []models.Stocktake{*item}
	if err := s.attachProducts(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *StocktakeService) attachProducts(ctx context.Context, items []models.Stocktake) error {
	products, err := s.products.GetMany(ctx, lo.Map(items, func(item models.Stocktake, _ int) int64 {
		return item.ProductId
	}))
	if err != nil {
		return err
	}
	byID := lo.KeyBy(products, func(p models.Product) int64 { return p.ID })
	for i := range items {
		if p, ok := byID[items[i].ProductId]; ok {
			items[i].Product = &models.StocktakeProduct{ID: p.ID, Name: p.Name}
		}
	}
	return nil
}

func (s *StocktakeService) Create(ctx context.Context, item *models.Stocktake) (*models.Stocktake, error) {
	if _, err := s.products.Get(ctx, item.ProductId); err != nil {
		if customerrors.IsNotFound(err) {
			return nil, customerrors.ErrInvalidParams
		}
		return nil, err
	}
	if item.Quantity < 0 || item.Price < 0 {
		return nil, customerrors.ErrInvalidParams
	}

	row := &models.Stocktake{
		SourceId:  item.SourceId,
		ProductId: item.ProductId,
		Quantity:  item.Quantity,
		Price:     item.Price,
	}
	if err := s.table.Create(ctx, row); err != nil {
		return nil, err
	}
	return s.Get(ctx, row.ItemId)
}

// Delete removes the stock item together with any order lines that point at it.
func (s *StocktakeService) Delete(ctx context.Context, id int64) error {
	return s.table.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := gorm.G[models.ProductsInOrder](tx).
			Where(clause.Eq{Column: clause.Column{Name: "produktId"}, Value: id}).
			Delete(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to delete order lines of stock item", "itemId", id, "error", err)
			return err
		}
		return s.table.deleteWith(ctx, tx, id)
	})
}
