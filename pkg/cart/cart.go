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

package cart

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	json "github.com/bytedance/sonic"
	"github.com/masteryyh/storefront/pkg/api"
	"github.com/masteryyh/storefront/pkg/consts"
	"github.com/masteryyh/storefront/pkg/customerrors"
	"github.com/masteryyh/storefront/pkg/models"
	"github.com/masteryyh/storefront/pkg/utils/pagination"
	"github.com/samber/lo"
)

type Store interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

// Service keeps the cart in memory and writes it through to the store on
// every change.
type Service struct {
	mu     sync.Mutex
	client *api.Client
	store  Store
	items  []models.CartItem
	loaded bool
}

func NewService(client *api.Client, store Store) *Service {
	return &Service{
		client: client,
		store:  store,
	}
}

func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Service) loadLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	var items []models.CartItem
	if _, err := s.store.Get(ctx, consts.KeyCart, &items); err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}
	s.items = items
	s.loaded = true
	return nil
}

func (s *Service) saveLocked(ctx context.Context, items []models.CartItem) error {
	if items == nil {
		items = []models.CartItem{}
	}
	if err := s.store.Set(ctx, consts.KeyCart, items); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	s.items = items
	return nil
}

func (s *Service) mutate(ctx context.Context, fn func(items []models.CartItem) ([]models.CartItem, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return err
	}
	next, err := fn(append([]models.CartItem(nil), s.items...))
	if err != nil {
		return err
	}
	return s.saveLocked(ctx, next)
}

// Items returns a copy of the cart, loading it from the store first if needed.
func (s *Service) Items(ctx context.Context) ([]models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	return append([]models.CartItem{}, s.items...), nil
}

// Add puts one unit of product in the cart, bumping the quantity when it is
// already there.
func (s *Service) Add(ctx context.Context, product *models.Product) error {
	return s.mutate(ctx, func(items []models.CartItem) ([]models.CartItem, error) {
		_, idx, found := lo.FindIndexOf(items, func(item models.CartItem) bool {
			return item.ID == product.ID
		})
		if found {
			items[idx].Quantity++
			return items, nil
		}
		return append(items, models.CartItem{
			ID:          product.ID,
			Name:        product.Name,
			Description: product.Description,
			Quantity:    1,
		}), nil
	})
}

// UpdateQuantity sets the quantity of an item. Zero or less removes it.
func (s *Service) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, id)
	}
	return s.mutate(ctx, func(items []models.CartItem) ([]models.CartItem, error) {
		_, idx, found := lo.FindIndexOf(items, func(item models.CartItem) bool {
			return item.ID == id
		})
		if !found {
			return nil, customerrors.ErrCartItemNotFound
		}
		items[idx].Quantity = quantity
		return items, nil
	})
}

func (s *Service) Remove(ctx context.Context, id int64) error {
	return s.mutate(ctx, func(items []models.CartItem) ([]models.CartItem, error) {
		return lo.Reject(items, func(item models.CartItem, _ int) bool {
			return item.ID == id
		}), nil
	})
}

func (s *Service) Clear(ctx context.Context) error {
	return s.mutate(ctx, func([]models.CartItem) ([]models.CartItem, error) {
		return []models.CartItem{}, nil
	})
}

func (s *Service) TotalItems(ctx context.Context) (int, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return 0, err
	}
	return lo.SumBy(items, func(item models.CartItem) int {
		return item.Quantity
	}), nil
}

// Export renders the cart in its persisted JSON form.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(items, "", "  ")
}

// Checkout turns the cart into an order: the shipping and payment details
// become a TO record, each cart line is matched to a stocktake item, and the
// cart is cleared once the order exists.
func (s *Service) Checkout(ctx context.Context, details *models.CreateTODto) (*models.Order, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, customerrors.ErrCartEmpty
	}
	if err := s.client.Transport().Validate(details); err != nil {
		return nil, err
	}

	lines := make([]models.OrderLineDto, 0, len(items))
	for _, item := range items {
		stock, err := s.client.Stocktake.List(ctx, pagination.QueryParams{
			Where: fmt.Sprintf("(ProductId,eq,%d)", item.ID),
			Limit: 1,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to look up stock for %s: %w", item.Name, err)
		}
		if len(stock.List) == 0 {
			return nil, fmt.Errorf("%w: no stock for %s", customerrors.ErrInvalidParams, item.Name)
		}
		lines = append(lines, models.OrderLineDto{
			ProduktId: stock.List[0].ItemId,
			Quantity:  item.Quantity,
		})
	}

	to, err := s.client.TO.Create(ctx, details)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer record: %w", err)
	}
	if to == nil {
		return nil, fmt.Errorf("%w: customer record missing from create response", customerrors.ErrDecode)
	}

	order, err := s.client.Orders.Create(ctx, &models.CreateOrderDto{
		Customer:      to.CustomerID,
		StreetAddress: lo.FromPtr(details.StreetAddress),
		PostCode:      postCode(details.PostCode),
		Suburb:        lo.FromPtr(details.Suburb),
		State:         lo.FromPtr(details.State),
		Lines:         lines,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.Clear(ctx); err != nil {
		return order, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order missing from create response", customerrors.ErrDecode)
	}
	return order, nil
}

func postCode(s *string) int {
	if s == nil {
		return 0
	}
	n, err := strconv.Atoi(*s)
	if err != nil {
		return 0
	}
	return n
}
