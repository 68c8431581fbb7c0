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
	"errors"
	"log/slog"

	"github.com/masteryyh/storefront/pkg/customerrors"
	"github.com/masteryyh/storefront/pkg/models"
	"github.com/masteryyh/storefront/pkg/utils/pagination"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TOService serves checkout customer records with the owning patron attached.
type TOService struct {
	table   *Table[models.TO]
	patrons *Table[models.Patron]
}

func NewTOService(db *gorm.DB) *TOService {
	return &TOService{
		table:   NewTable[models.TO](db),
		patrons: NewTable[models.Patron](db),
	}
}

func (s *TOService) List(ctx context.Context, params *pagination.QueryParams) (*pagination.ListResponse[models.TO], error) {
	resp, err := s.table.List(ctx, params)
	if err != nil {
		return nil, err
	}
	if err := s.attachPatrons(ctx, resp.List); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *TOService) Get(ctx context.Context, id int64) (*models.TO, error) {
	to, err := s.table.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	tos := []models.TO{*to}
	if err := s.attachPatrons(ctx, tos); err != nil {
		return nil, err
	}
	return &tos[0], nil
}

func (s *TOService) attachPatrons(ctx context.Context, tos []models.TO) error {
	ids := lo.FilterMap(tos, func(to models.TO, _ int) (int64, bool) {
		return to.PatronId, to.PatronId > 0
	})
	patrons, err := s.patrons.GetMany(ctx, ids)
	if err != nil {
		return err
	}
	byID := lo.KeyBy(patrons, func(p models.Patron) int64 { return p.ID })
	for i := range tos {
		if p, ok := byID[tos[i].PatronId]; ok {
			tos[i].Patrons = &models.TOPatron{UserID: p.ID, Email: p.Email}
		}
	}
	return nil
}

func (s *TOService) Create(ctx context.Context, dto *models.CreateTODto) (*models.TO, error) {
	if dto.PatronId > 0 {
		if _, err := s.patrons.Get(ctx, dto.PatronId); err != nil {
			if customerrors.IsNotFound(err) {
				return nil, customerrors.ErrInvalidParams
			}
			return nil, err
		}
	}
	to := dto.ToModel()
	if err := s.table.Create(ctx, to); err != nil {
		return nil, err
	}
	return s.Get(ctx, to.CustomerID)
}

func (s *TOService) Delete(ctx context.Context, id int64) error {
	return s.table.Delete(ctx, id)
}

// OrderService serves orders with their customer record, lines and stock items.
type OrderService struct {
	db    *gorm.DB
	table *Table[models.Order]
	tos   *Table[models.TO]
	stock *Table[models.Stocktake]
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{
		db:    db,
		table: NewTable[models.Order](db),
		tos:   NewTable[models.TO](db),
		stock: NewTable[models.Stocktake](db),
	}
}

func (s *OrderService) List(ctx context.Context, params *pagination.QueryParams) (*pagination.ListResponse[models.Order], error) {
	resp, err := s.table.List(ctx, params)
	if err != nil {
		return nil, err
	}
	if err := s.attach(ctx, resp.List); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *OrderService) Get(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.table.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	orders := []models.Order{*order}
	if err := s.attach(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (s *OrderService) attach(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	orderIDs := lo.Map(orders, func(o models.Order, _ int) int64 { return o.OrderID })
	lines, err := gorm.G[models.ProductsInOrder](s.db).
		Where(clause.IN{Column: clause.Column{Name: "OrderId"}, Values: lo.ToAnySlice(orderIDs)}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "ID"}}).
		Find(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load order lines", "error", err)
		return err
	}
	linesByOrder := lo.GroupBy(lines, func(l models.ProductsInOrder) int64 { return l.OrderId })

	tos, err := s.tos.GetMany(ctx, lo.Map(orders, func(o models.Order, _ int) int64 { return o.Customer }))
	if err != nil {
		return err
	}
	toByID := lo.KeyBy(tos, func(to models.TO) int64 { return to.CustomerID })

	items, err := s.stock.GetMany(ctx, lo.Map(lines, func(l models.ProductsInOrder, _ int) int64 { return l.ProduktId }))
	if err != nil {
		return err
	}
	itemByID := lo.KeyBy(items, func(item models.Stocktake) int64 { return item.ItemId })

	for i := range orders {
		order := &orders[i]
		if to, ok := toByID[order.Customer]; ok {
			order.TO = &models.OrderTO{CustomerID: to.CustomerID, PatronId: to.PatronId}
		}
		order.ProductsInOrders = lo.CoalesceSliceOrEmpty(linesByOrder[order.OrderID])
		order.StocktakeList = lo.FilterMap(order.ProductsInOrders, func(l models.ProductsInOrder, _ int) (models.OrderStocktake, bool) {
			item, ok := itemByID[l.ProduktId]
			return models.OrderStocktake{ItemId: item.ItemId, SourceId: item.SourceId}, ok
		})
	}
	return nil
}

// Create places an order for an existing customer record and takes the
// ordered quantities out of stock. Nothing is written if any line fails.
func (s *OrderService) Create(ctx context.Context, dto *models.CreateOrderDto) (*models.Order, error) {
	var orderID int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := gorm.G[models.TO](tx).Where(column("CustomerID", dto.Customer)).Take(ctx); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return customerrors.ErrInvalidParams
			}
			return err
		}

		for _, line := range dto.Lines {
			item, err := gorm.G[models.Stocktake](tx).Where(column("ItemId", line.ProduktId)).Take(ctx)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return customerrors.ErrInvalidParams
				}
				return err
			}
			if item.Quantity < line.Quantity {
				return customerrors.ErrInsufficientStock
			}
			if err := tx.Model(&models.Stocktake{}).
				Where(column("ItemId", item.ItemId)).
				Update("Quantity", gorm.Expr("? - ?", clause.Column{Name: "Quantity"}, line.Quantity)).Error; err != nil {
				return err
			}
		}

		order := &models.Order{
			Customer:      dto.Customer,
			StreetAddress: dto.StreetAddress,
			PostCode:      dto.PostCode,
			Suburb:        dto.Suburb,
			State:         dto.State,
		}
		if err := gorm.G[models.Order](tx).Create(ctx, order); err != nil {
			return err
		}
		orderID = order.OrderID

		lines := lo.Map(dto.Lines, func(l models.OrderLineDto, _ int) models.ProductsInOrder {
			return models.ProductsInOrder{OrderId: order.OrderID, ProduktId: l.ProduktId, Quantity: l.Quantity}
		})
		return gorm.G[models.ProductsInOrder](tx).CreateInBatches(ctx, &lines, 100)
	})
	if err != nil {
		if customerrors.GetBusinessError(err) == nil {
			slog.ErrorContext(ctx, "failed to create order", "customer", dto.Customer, "error", err)
		}
		return nil, err
	}
	return s.Get(ctx, orderID)
}

func (s *OrderService) Update(ctx context.Context, id int64, dto *models.UpdateOrderDto) (*models.Order, error) {
	if _, err := s.table.Update(ctx, id, dto.Updates()); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *OrderService) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := gorm.G[models.ProductsInOrder](tx).Where(column("OrderId", id)).Delete(ctx); err != nil {
			return err
		}
		return s.table.deleteWith(ctx, tx, id)
	})
}
